// Package sink provides output destinations for drained binlog streams.
package sink

import (
	"bytes"
)

// Sink receives the bytes moved out of a session by a drain. Every Write
// carries a whole number of entries: the session frames special entries
// in a scratch buffer and channel batches contain only committed frames,
// so a sink that parses the stream never sees a torn frame.
type Sink interface {
	Write(p []byte) (int, error)
}

// Memory is an in-memory sink, useful for tests and for buffering a
// stream before forwarding it.
type Memory struct {
	buf bytes.Buffer
}

// NewMemory creates an empty memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write appends p to the buffer. It never fails.
func (m *Memory) Write(p []byte) (int, error) {
	return m.buf.Write(p)
}

// Bytes returns the accumulated stream.
func (m *Memory) Bytes() []byte {
	return m.buf.Bytes()
}

// Len returns the number of buffered bytes.
func (m *Memory) Len() int {
	return m.buf.Len()
}

// Reset discards the accumulated stream.
func (m *Memory) Reset() {
	m.buf.Reset()
}
