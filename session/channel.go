package session

import (
	"sync/atomic"

	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/pkg/queue"
)

// Channel is a single producer's byte queue, owned by a session.
//
// The producer serializes events into the queue through the Producer
// handle and marks the channel closed when done; the session's drain
// path is the only consumer. A closed channel is disposed by the first
// drain that also finds its queue empty.
type Channel struct {
	queue    *queue.Queue
	producer *queue.Writer
	consumer *queue.Reader
	closed   atomic.Bool

	// Guarded by the owning session's mutex.
	prop entry.WriterProp
}

func newChannel(capacity int, prop entry.WriterProp) *Channel {
	q := queue.New(capacity)
	return &Channel{
		queue:    q,
		producer: q.Writer(),
		consumer: q.Reader(),
		prop:     prop,
	}
}

// Producer returns the queue's producer handle. It must only be used by
// the single goroutine that owns this channel.
func (c *Channel) Producer() *queue.Writer {
	return c.producer
}

// Close marks the channel as no longer written. The producer must not
// use the channel after the next drain observes the mark; the session
// removes the channel once it is both closed and empty.
func (c *Channel) Close() {
	c.closed.Store(true)
}

// Closed reports whether the channel was marked closed.
func (c *Channel) Closed() bool {
	return c.closed.Load()
}

// Stats returns the channel queue's statistics.
func (c *Channel) Stats() *queue.Statistics {
	return c.queue.Stats()
}
