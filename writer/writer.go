// Package writer provides the producer front-end of a binlog session:
// it owns one channel and serializes events into its queue.
package writer

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Morgan-Stanley/binlog/codec"
	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/errors"
	"github.com/Morgan-Stanley/binlog/metric"
	"github.com/Morgan-Stanley/binlog/session"
)

// Args is the serialized argument tuple of one event. Implementations
// write the arguments in the order declared by the event source's
// ArgumentTags and report the exact byte count up front, so the whole
// event can be reserved in the queue as one contiguous frame.
type Args interface {
	codec.Marshaler
	codec.Sizer
}

// NoArgs is the empty argument tuple.
type NoArgs struct{}

// MarshalBinlog writes nothing.
func (NoArgs) MarshalBinlog(*codec.Encoder) error { return nil }

// SerializedSize returns zero.
func (NoArgs) SerializedSize() int { return 0 }

// Writer adds events to a session through a dedicated channel.
// A Writer must be used by a single goroutine; create one per producer.
type Writer struct {
	session *session.Session
	channel *session.Channel
	clock   func() uint64
	metrics *metric.Metrics
}

// Option configures a writer.
type Option func(*options)

type options struct {
	name    string
	id      uint64
	clock   func() uint64
	metrics *metric.Metrics
}

// WithName sets the writer name recorded in the channel's writer prop.
// The default is "writer-" followed by a random identifier.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithID sets the writer id recorded in the channel's writer prop.
func WithID(id uint64) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithClock overrides the clock value recorded on each event. The
// default is the system clock in nanoseconds, matching the session's
// default clock sync.
func WithClock(fn func() uint64) Option {
	return func(o *options) {
		o.clock = fn
	}
}

// WithMetrics enables Prometheus metrics for this writer.
func WithMetrics(reg *metric.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.metrics = reg.Metrics
		}
	}
}

// New creates a writer backed by a fresh channel of queueCapacity bytes.
func New(s *session.Session, queueCapacity int, opts ...Option) *Writer {
	o := options{
		name: "writer-" + uuid.NewString(),
		clock: func() uint64 {
			return uint64(time.Now().UnixNano())
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	ch := s.CreateChannel(queueCapacity, entry.WriterProp{ID: o.id, Name: o.name})
	return &Writer{
		session: s,
		channel: ch,
		clock:   o.clock,
		metrics: o.metrics,
	}
}

// Channel returns the channel owned by this writer.
func (w *Writer) Channel() *session.Channel {
	return w.channel
}

// Close marks the writer's channel closed. The writer must not be used
// afterwards; the session disposes of the channel once it is drained.
func (w *Writer) Close() {
	w.channel.Close()
}

// Enabled reports whether events of severity sev pass the session's
// advisory minimum. Callers must check Enabled before evaluating event
// arguments, so arguments of suppressed events are never computed.
func (w *Writer) Enabled(sev entry.Severity) bool {
	return sev >= w.session.MinSeverity()
}

// AddEvent serializes one event into the channel queue:
//
//	size:u32 | sourceID:u64 | clockValue:u64 | arguments
//
// The whole frame is reserved and committed as one unit, so a drain
// never observes a torn event. When the queue lacks space the event is
// dropped and ErrQueueFull returned; dropping or retrying is the
// caller's policy.
func (w *Writer) AddEvent(sourceID uint64, args Args) error {
	payloadSize := codec.SizeUint64 + codec.SizeUint64 + args.SerializedSize()
	frameSize := codec.SizeUint32 + payloadSize

	producer := w.channel.Producer()
	buf, ok := producer.Reserve(frameSize)
	if !ok {
		if w.metrics != nil {
			w.metrics.EventsDropped.Inc()
		}
		return errors.ErrQueueFull
	}

	enc := codec.NewEncoder(&sliceWriter{buf: buf})
	if err := w.encodeFrame(enc, uint32(payloadSize), sourceID, args); err != nil {
		producer.Rollback()
		return err
	}
	if enc.Written() != frameSize {
		// args lied about its size; the reservation is discarded so
		// the half-built frame never reaches the stream.
		producer.Rollback()
		return errors.WrapInvalid(errors.ErrSizeMismatch, "Writer", "AddEvent", "verify argument size")
	}

	producer.Commit()
	if w.metrics != nil {
		w.metrics.EventsWritten.Inc()
	}
	return nil
}

func (w *Writer) encodeFrame(enc *codec.Encoder, payloadSize uint32, sourceID uint64, args Args) error {
	if err := enc.Uint32(payloadSize); err != nil {
		return errors.WrapInvalid(err, "Writer", "AddEvent", "encode frame size")
	}
	if err := enc.Uint64(sourceID); err != nil {
		return errors.WrapInvalid(err, "Writer", "AddEvent", "encode source id")
	}
	if err := enc.Uint64(w.clock()); err != nil {
		return errors.WrapInvalid(err, "Writer", "AddEvent", "encode clock value")
	}
	if err := args.MarshalBinlog(enc); err != nil {
		return errors.WrapInvalid(err, "Writer", "AddEvent", "encode arguments")
	}
	return nil
}

// AddEventIf adds an event only when sev passes the session's minimum
// severity. argsFn is not invoked for suppressed events, so argument
// expressions of disabled levels cost nothing.
func (w *Writer) AddEventIf(sev entry.Severity, sourceID uint64, argsFn func() Args) error {
	if !w.Enabled(sev) {
		return nil
	}
	return w.AddEvent(sourceID, argsFn())
}

// sliceWriter writes into a fixed reserved slice.
type sliceWriter struct {
	buf []byte
	off int
}

func (sw *sliceWriter) Write(p []byte) (int, error) {
	n := copy(sw.buf[sw.off:], p)
	sw.off += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
