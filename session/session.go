package session

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/errors"
	"github.com/Morgan-Stanley/binlog/metric"
)

// Session is a concurrently writable and readable log stream.
//
// Producers add event sources and events: sources are registered
// directly under the session mutex, events travel through per-producer
// channels. A single consumer moves everything to an output sink with
// Consume, which guarantees that every event source is written to the
// output before any event referencing it.
type Session struct {
	mu sync.Mutex

	// Guarded by mu.
	channels           []*Channel
	sources            []entry.EventSource
	numConsumedSources int
	totalConsumedBytes int
	specialEntryBuffer bytes.Buffer

	// nextSourceID starts at 1; 0 is never a valid source id.
	nextSourceID uint64

	minSeverity atomic.Uint32

	clockSync func() entry.ClockSync
	metrics   *metric.Metrics
}

// ConsumeResult describes the work done by a Consume call.
type ConsumeResult struct {
	// BytesConsumed is the number of bytes written to the output
	// stream by this call.
	BytesConsumed int
	// TotalBytesConsumed is the lifetime byte count of the session.
	TotalBytesConsumed int
	// ChannelsPolled is the number of channels polled for log data.
	ChannelsPolled int
	// ChannelsRemoved is the number of channels removed because they
	// were closed and empty.
	ChannelsRemoved int
}

// Option configures a session.
type Option func(*Session)

// WithClockSync overrides the clock-sync provider used at the start of
// the stream and on metadata re-emission. The default describes the
// system clock.
func WithClockSync(fn func() entry.ClockSync) Option {
	return func(s *Session) {
		s.clockSync = fn
	}
}

// WithMetrics enables Prometheus metrics for this session.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.metrics = reg.Metrics
		}
	}
}

// New creates an empty session. Every level is allowed initially.
func New(opts ...Option) *Session {
	s := &Session{
		nextSourceID: 1,
		clockSync: func() entry.ClockSync {
			return entry.NewClockSync(time.Now())
		},
	}
	s.minSeverity.Store(uint32(entry.Trace))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChannel creates a channel with a queue of capacity bytes.
//
// The session retains ownership of the channel: it is disposed by the
// first Consume call that observes it closed and empty. The returned
// pointer stays valid until then.
func (s *Session) CreateChannel(capacity int, prop entry.WriterProp) *Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := newChannel(capacity, prop)
	s.channels = append(s.channels, ch)
	if s.metrics != nil {
		s.metrics.ChannelsActive.Inc()
	}
	return ch
}

// SetChannelWriterID sets the writer id of ch. ch must be owned by s.
func (s *Session) SetChannelWriterID(ch *Channel, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch.prop.ID = id
}

// SetChannelWriterName sets the writer name of ch. ch must be owned by s.
func (s *Session) SetChannelWriterName(ch *Channel, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch.prop.Name = name
}

// AddEventSource registers es and returns the id assigned to it.
//
// The returned id can be used by producers to reference the source in
// events. Events created after registration (AddEventSource happens
// before the event write) are guaranteed to be consumed after the
// source is.
func (s *Session) AddEventSource(es entry.EventSource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	es.ID = s.nextSourceID
	s.nextSourceID++
	s.sources = append(s.sources, es)
	if s.metrics != nil {
		s.metrics.SourcesRegistered.Inc()
	}
	return es.ID
}

// MinSeverity returns the severity below which producers should not add
// events.
func (s *Session) MinSeverity() entry.Severity {
	return entry.Severity(s.minSeverity.Load())
}

// SetMinSeverity sets the minimum severity of new events.
//
// This is advisory only: producers are encouraged not to add events
// below the limit, but not required to.
func (s *Session) SetMinSeverity(sev entry.Severity) {
	s.minSeverity.Store(uint32(sev))
}

// Consume moves metadata and data from the session to out.
//
// If this is the first consume of the session, a clock sync describing
// the session clock is written first. Then not-yet-consumed event
// sources are written, then each channel is polled in creation order
// and its batch is written behind a writer-prop entry. Closed and empty
// channels are removed.
//
// Because data is consumed in batches, concurrently added events from
// different channels may appear out of order; events from a single
// channel are always in order. out always receives a sequence of whole
// entries; sink write failures are returned unchanged.
func (s *Session) Consume(out io.Writer) (ConsumeResult, error) {
	// This lock:
	//  - Ensures only a single consumer runs at a time
	//  - Ensures safe read of channels and writer props
	//  - Ensures no new event source can be registered mid-drain
	//
	// Without it, a producer could observe a source as registered and
	// write an event referencing it while the drain has already moved
	// past the source list, putting the event before its source in
	// the output.
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ConsumeResult

	// A clock sync opens the stream.
	if s.totalConsumedBytes == 0 {
		cs := s.clockSync()
		if err := s.consumeSpecialEntry(out, entry.ClockSyncTag, &cs, &result); err != nil {
			return s.finish(result), err
		}
	}

	// Sources must precede the events referencing them.
	for ; s.numConsumedSources < len(s.sources); s.numConsumedSources++ {
		es := &s.sources[s.numConsumedSources]
		if err := s.consumeSpecialEntry(out, entry.EventSourceTag, es, &result); err != nil {
			return s.finish(result), err
		}
	}

	remaining := make([]*Channel, 0, len(s.channels))
	for i, ch := range s.channels {
		result.ChannelsPolled++

		// closed must be sampled before the queue is read: checking
		// it after could observe a queue that was filled and closed
		// in between as empty-and-closed, losing the data.
		isClosed := ch.Closed()

		reader := ch.consumer
		head, tail := reader.BeginRead()
		batch := len(head) + len(tail)
		if batch > 0 {
			ch.prop.BatchSize = uint64(batch)
			err := s.consumeSpecialEntry(out, entry.WriterPropTag, &ch.prop, &result)
			if err == nil {
				err = writeAll(out, head, &result)
			}
			if err == nil {
				err = writeAll(out, tail, &result)
			}
			if err != nil {
				// The batch was not fully drained: keep the channel
				// and its queued bytes for the next attempt. Frames
				// already handed to the sink stay counted.
				s.channels = append(remaining, s.channels[i:]...)
				return s.finish(result), err
			}
			reader.EndRead()
		}

		if isClosed {
			// Queue is empty and closed, dispose of the channel.
			result.ChannelsRemoved++
			if s.metrics != nil {
				s.metrics.ChannelsActive.Dec()
			}
		} else {
			remaining = append(remaining, ch)
		}
	}
	s.channels = remaining

	return s.finish(result), nil
}

// ReconsumeMetadata moves already consumed metadata again to out:
// a fresh clock sync followed by every already-consumed event source.
// Not-yet-consumed sources are left for the next Consume.
//
// Useful when out changes at runtime, e.g. on log rotation: re-emitting
// the metadata makes the new destination self-contained.
func (s *Session) ReconsumeMetadata(out io.Writer) (ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ConsumeResult

	cs := s.clockSync()
	if err := s.consumeSpecialEntry(out, entry.ClockSyncTag, &cs, &result); err != nil {
		return s.finish(result), err
	}

	for i := 0; i < s.numConsumedSources; i++ {
		if err := s.consumeSpecialEntry(out, entry.EventSourceTag, &s.sources[i], &result); err != nil {
			return s.finish(result), err
		}
	}

	return s.finish(result), nil
}

// consumeSpecialEntry writes e to the scratch buffer first, then to out
// in a single write. The sink therefore only ever sees whole frames,
// which keeps sinks that parse the stream simple.
func (s *Session) consumeSpecialEntry(out io.Writer, tag uint64, e entry.Entry, result *ConsumeResult) error {
	s.specialEntryBuffer.Reset()
	if _, err := entry.WriteSizePrefixedTagged(&s.specialEntryBuffer, tag, e); err != nil {
		return errors.WrapFatal(err, "Session", "consumeSpecialEntry", "serialize entry")
	}
	return writeAll(out, s.specialEntryBuffer.Bytes(), result)
}

// writeAll writes b to out and accounts the written bytes.
func writeAll(out io.Writer, b []byte, result *ConsumeResult) error {
	if len(b) == 0 {
		return nil
	}
	n, err := out.Write(b)
	result.BytesConsumed += n
	return err
}

// finish folds the per-call byte count into the session total and
// records metrics.
func (s *Session) finish(result ConsumeResult) ConsumeResult {
	s.totalConsumedBytes += result.BytesConsumed
	result.TotalBytesConsumed = s.totalConsumedBytes

	if s.metrics != nil {
		s.metrics.DrainsTotal.Inc()
		s.metrics.BytesConsumed.Add(float64(result.BytesConsumed))
		s.metrics.ChannelsPolled.Add(float64(result.ChannelsPolled))
		s.metrics.ChannelsRemoved.Add(float64(result.ChannelsRemoved))
	}
	return result
}
