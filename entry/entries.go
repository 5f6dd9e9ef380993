package entry

import (
	"github.com/Morgan-Stanley/binlog/codec"
)

// Special entry tags. The high bit of an entry tag distinguishes special
// (metadata) entries from data events; the reserved values count down
// from the top of the tag space so new event source ids can never collide
// with them. Unknown high-bit tags must be skipped by readers.
const (
	// SpecialBit marks an entry tag as special.
	SpecialBit uint64 = 1 << 63

	// EventSourceTag frames a serialized EventSource.
	EventSourceTag uint64 = 0xFFFFFFFFFFFFFFFF
	// WriterPropTag frames a serialized WriterProp.
	WriterPropTag uint64 = 0xFFFFFFFFFFFFFFFE
	// ClockSyncTag frames a serialized ClockSync.
	ClockSyncTag uint64 = 0xFFFFFFFFFFFFFFFD
)

// EventSource is the schema of an event: its severity, provenance, format
// string and the type tags of its arguments. Sources are registered with
// a session, which assigns the id; an id may be re-registered, and
// readers take the later definition.
type EventSource struct {
	ID           uint64
	Severity     Severity
	Category     string
	Function     string
	File         string
	Line         uint64
	FormatString string
	ArgumentTags string
}

// SerializedSize returns the exact byte count MarshalBinlog produces.
func (es *EventSource) SerializedSize() int {
	return codec.SizeUint64 +
		codec.SizeUint16 +
		codec.SizeString(es.Category) +
		codec.SizeString(es.Function) +
		codec.SizeString(es.File) +
		codec.SizeUint64 +
		codec.SizeString(es.FormatString) +
		codec.SizeString(es.ArgumentTags)
}

// MarshalBinlog writes the fields in declaration order.
func (es *EventSource) MarshalBinlog(e *codec.Encoder) error {
	if err := e.Uint64(es.ID); err != nil {
		return err
	}
	if err := e.Uint16(uint16(es.Severity)); err != nil {
		return err
	}
	if err := e.String(es.Category); err != nil {
		return err
	}
	if err := e.String(es.Function); err != nil {
		return err
	}
	if err := e.String(es.File); err != nil {
		return err
	}
	if err := e.Uint64(es.Line); err != nil {
		return err
	}
	if err := e.String(es.FormatString); err != nil {
		return err
	}
	return e.String(es.ArgumentTags)
}

// UnmarshalBinlog reads the fields in declaration order.
func (es *EventSource) UnmarshalBinlog(r *codec.Range) error {
	var err error
	if es.ID, err = r.Uint64(); err != nil {
		return err
	}
	var sev uint16
	if sev, err = r.Uint16(); err != nil {
		return err
	}
	es.Severity = Severity(sev)
	if es.Category, err = r.String(); err != nil {
		return err
	}
	if es.Function, err = r.String(); err != nil {
		return err
	}
	if es.File, err = r.String(); err != nil {
		return err
	}
	if es.Line, err = r.Uint64(); err != nil {
		return err
	}
	if es.FormatString, err = r.String(); err != nil {
		return err
	}
	es.ArgumentTags, err = r.String()
	return err
}

// WriterProp describes the producer of a channel. It precedes every
// drained data batch, carrying the batch size in bytes; the id and name
// may evolve between batches.
type WriterProp struct {
	ID        uint64
	Name      string
	BatchSize uint64
}

// SerializedSize returns the exact byte count MarshalBinlog produces.
func (wp *WriterProp) SerializedSize() int {
	return codec.SizeUint64 + codec.SizeString(wp.Name) + codec.SizeUint64
}

// MarshalBinlog writes the fields in declaration order.
func (wp *WriterProp) MarshalBinlog(e *codec.Encoder) error {
	if err := e.Uint64(wp.ID); err != nil {
		return err
	}
	if err := e.String(wp.Name); err != nil {
		return err
	}
	return e.Uint64(wp.BatchSize)
}

// UnmarshalBinlog reads the fields in declaration order.
func (wp *WriterProp) UnmarshalBinlog(r *codec.Range) error {
	var err error
	if wp.ID, err = r.Uint64(); err != nil {
		return err
	}
	if wp.Name, err = r.String(); err != nil {
		return err
	}
	wp.BatchSize, err = r.Uint64()
	return err
}

// ClockSync maps a monotonic counter value to a wall clock time,
// letting readers translate event clock values to timestamps.
type ClockSync struct {
	ClockValue     uint64
	ClockFrequency uint64
	NsSinceEpoch   int64
	TzOffset       int32
	TzName         string
}

// SerializedSize returns the exact byte count MarshalBinlog produces.
func (cs *ClockSync) SerializedSize() int {
	return codec.SizeUint64 + codec.SizeUint64 + codec.SizeUint64 +
		codec.SizeUint32 + codec.SizeString(cs.TzName)
}

// MarshalBinlog writes the fields in declaration order.
func (cs *ClockSync) MarshalBinlog(e *codec.Encoder) error {
	if err := e.Uint64(cs.ClockValue); err != nil {
		return err
	}
	if err := e.Uint64(cs.ClockFrequency); err != nil {
		return err
	}
	if err := e.Int64(cs.NsSinceEpoch); err != nil {
		return err
	}
	if err := e.Int32(cs.TzOffset); err != nil {
		return err
	}
	return e.String(cs.TzName)
}

// UnmarshalBinlog reads the fields in declaration order.
func (cs *ClockSync) UnmarshalBinlog(r *codec.Range) error {
	var err error
	if cs.ClockValue, err = r.Uint64(); err != nil {
		return err
	}
	if cs.ClockFrequency, err = r.Uint64(); err != nil {
		return err
	}
	if cs.NsSinceEpoch, err = r.Int64(); err != nil {
		return err
	}
	if cs.TzOffset, err = r.Int32(); err != nil {
		return err
	}
	cs.TzName, err = r.String()
	return err
}

// Event is a data record: a reference to its source schema, the clock
// value at creation, and the argument bytes serialized per the source's
// ArgumentTags.
type Event struct {
	Source     *EventSource
	ClockValue uint64
	Arguments  []byte
}
