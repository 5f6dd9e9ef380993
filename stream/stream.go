// Package stream reads binlog streams back into typed events.
package stream

import (
	"encoding/binary"
	"io"

	"github.com/Morgan-Stanley/binlog/codec"
	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/errors"
)

// DefaultMaxFrameSize bounds the payload buffer a reader allocates for
// a single frame. Larger declared sizes are rejected with ErrFrameTooLarge.
const DefaultMaxFrameSize = 1 << 20

// EventStream reads size-prefixed frames from an input, accumulates the
// metadata they carry, and yields data events.
//
// The input must support reading and relative seeking: on a short read
// the consumed bytes are rewound, so the same call can be retried once
// the stream has grown (e.g. a log file that is still being written).
type EventStream struct {
	input io.ReadSeeker

	maxFrameSize uint32

	sources    map[uint64]*entry.EventSource
	writerProp entry.WriterProp
	clockSync  entry.ClockSync

	buffer []byte
	event  entry.Event
}

// Option configures an event stream.
type Option func(*EventStream)

// WithMaxFrameSize overrides the per-frame size ceiling.
func WithMaxFrameSize(n uint32) Option {
	return func(es *EventStream) {
		es.maxFrameSize = n
	}
}

// New creates an event stream reading from input.
func New(input io.ReadSeeker, opts ...Option) *EventStream {
	es := &EventStream{
		input:        input,
		maxFrameSize: DefaultMaxFrameSize,
		sources:      make(map[uint64]*entry.EventSource),
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// WriterProp returns the most recently parsed writer-prop entry, which
// describes the producer of the events read since. The zero value is
// returned before the first one is seen.
func (es *EventStream) WriterProp() entry.WriterProp {
	return es.writerProp
}

// ClockSync returns the most recently parsed clock sync, or the zero
// value before the first one is seen.
func (es *EventStream) ClockSync() entry.ClockSync {
	return es.clockSync
}

// NextEvent returns the next data event in the stream, skipping and
// accumulating any special entries in between. It returns (nil, nil)
// on a clean end of stream.
//
// The returned event is only valid until the next call: it references
// internal buffers that the next frame overwrites.
//
// Errors are transient where retrying can help (short reads rewind the
// input to the frame boundary, an unknown source id leaves the rest of
// the stream readable) and invalid where the frame itself is corrupt.
func (es *EventStream) NextEvent() (*entry.Event, error) {
	for {
		payload, eof, err := es.nextSizePrefixedFrame()
		if err != nil {
			return nil, err
		}
		if eof {
			return nil, nil
		}

		r := codec.NewRange(payload)
		tag, err := r.Uint64()
		if err != nil {
			return nil, errors.WrapInvalid(err, "EventStream", "NextEvent", "read entry tag")
		}

		if tag&entry.SpecialBit == 0 {
			if err := es.readEvent(tag, r); err != nil {
				return nil, err
			}
			return &es.event, nil
		}

		switch tag {
		case entry.EventSourceTag:
			err = es.readEventSource(r)
		case entry.WriterPropTag:
			err = es.readWriterProp(r)
		case entry.ClockSyncTag:
			err = es.readClockSync(r)
		default:
			// Unknown special entries are ignored, to be
			// forward compatible.
		}
		if err != nil {
			return nil, err
		}
	}
}

// nextSizePrefixedFrame reads one size-prefixed frame into the internal
// buffer. At a clean EOF it reports eof; a partial frame rewinds the
// input past the consumed bytes and fails, so the next call retries
// from the frame boundary.
func (es *EventStream) nextSizePrefixedFrame() (payload []byte, eof bool, err error) {
	var sizeBuf [4]byte
	n := readFull(es.input, sizeBuf[:])
	if n == 0 {
		return nil, true, nil
	}
	if n != len(sizeBuf) {
		es.rewind(n)
		return nil, false, errors.WrapTransient(errors.ErrShortRead,
			"EventStream", "nextSizePrefixedFrame", "read frame size")
	}

	size := binary.LittleEndian.Uint32(sizeBuf[:])
	if size > es.maxFrameSize {
		return nil, false, errors.WrapInvalid(errors.ErrFrameTooLarge,
			"EventStream", "nextSizePrefixedFrame", "check frame size")
	}

	if cap(es.buffer) < int(size) {
		es.buffer = make([]byte, size)
	}
	es.buffer = es.buffer[:size]

	n = readFull(es.input, es.buffer)
	if n != int(size) {
		es.rewind(len(sizeBuf) + n)
		return nil, false, errors.WrapTransient(errors.ErrShortRead,
			"EventStream", "nextSizePrefixedFrame", "read frame payload")
	}

	return es.buffer, false, nil
}

// readFull reads len(dst) bytes unless the input ends first. Unlike
// io.ReadFull it treats any end-of-input as a short count, never as an
// error, so the caller can decide between EOF and rewind.
func readFull(in io.Reader, dst []byte) int {
	total := 0
	for total < len(dst) {
		n, err := in.Read(dst[total:])
		total += n
		if err != nil || n == 0 {
			break
		}
	}
	return total
}

// rewind seeks the input back n bytes.
func (es *EventStream) rewind(n int) {
	_, _ = es.input.Seek(int64(-n), io.SeekCurrent)
}

func (es *EventStream) readEventSource(r *codec.Range) error {
	// Deserialize into a local first: the source table must not be
	// touched when the frame is corrupt.
	var source entry.EventSource
	if err := source.UnmarshalBinlog(r); err != nil {
		return errors.WrapInvalid(err, "EventStream", "readEventSource", "decode event source")
	}
	// A later definition with the same id overrides the earlier one;
	// events already returned keep their pointer to the old value.
	es.sources[source.ID] = &source
	return nil
}

func (es *EventStream) readWriterProp(r *codec.Range) error {
	// writerProp is updated only if the decode fully succeeds.
	var wp entry.WriterProp
	if err := wp.UnmarshalBinlog(r); err != nil {
		return errors.WrapInvalid(err, "EventStream", "readWriterProp", "decode writer prop")
	}
	es.writerProp = wp
	return nil
}

func (es *EventStream) readClockSync(r *codec.Range) error {
	// clockSync is updated only if the decode fully succeeds.
	var cs entry.ClockSync
	if err := cs.UnmarshalBinlog(r); err != nil {
		return errors.WrapInvalid(err, "EventStream", "readClockSync", "decode clock sync")
	}
	es.clockSync = cs
	return nil
}

func (es *EventStream) readEvent(sourceID uint64, r *codec.Range) error {
	source, ok := es.sources[sourceID]
	if !ok {
		return errors.WrapTransient(errors.ErrUnknownSource,
			"EventStream", "readEvent", "look up event source")
	}

	clockValue, err := r.Uint64()
	if err != nil {
		return errors.WrapInvalid(err, "EventStream", "readEvent", "read clock value")
	}

	es.event = entry.Event{
		Source:     source,
		ClockValue: clockValue,
		Arguments:  r.Remaining(),
	}
	return nil
}
