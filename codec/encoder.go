package codec

import (
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes values to an underlying io.Writer using the binlog wire
// format: little-endian fixed-width integers, IEEE-754 floats, one-byte
// bools, and u32 element-count prefixed variable-size sequences.
type Encoder struct {
	w       io.Writer
	scratch [8]byte
	written int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Written returns the number of bytes written so far.
func (e *Encoder) Written() int {
	return e.written
}

func (e *Encoder) write(b []byte) error {
	n, err := e.w.Write(b)
	e.written += n
	return err
}

// Uint8 writes a single byte.
func (e *Encoder) Uint8(v uint8) error {
	e.scratch[0] = v
	return e.write(e.scratch[:1])
}

// Uint16 writes a little-endian 16 bit unsigned integer.
func (e *Encoder) Uint16(v uint16) error {
	binary.LittleEndian.PutUint16(e.scratch[:2], v)
	return e.write(e.scratch[:2])
}

// Uint32 writes a little-endian 32 bit unsigned integer.
func (e *Encoder) Uint32(v uint32) error {
	binary.LittleEndian.PutUint32(e.scratch[:4], v)
	return e.write(e.scratch[:4])
}

// Uint64 writes a little-endian 64 bit unsigned integer.
func (e *Encoder) Uint64(v uint64) error {
	binary.LittleEndian.PutUint64(e.scratch[:8], v)
	return e.write(e.scratch[:8])
}

// Int8 writes a single byte.
func (e *Encoder) Int8(v int8) error {
	return e.Uint8(uint8(v))
}

// Int16 writes a little-endian 16 bit signed integer.
func (e *Encoder) Int16(v int16) error {
	return e.Uint16(uint16(v))
}

// Int32 writes a little-endian 32 bit signed integer.
func (e *Encoder) Int32(v int32) error {
	return e.Uint32(uint32(v))
}

// Int64 writes a little-endian 64 bit signed integer.
func (e *Encoder) Int64(v int64) error {
	return e.Uint64(uint64(v))
}

// Float32 writes an IEEE-754 binary32 value, preserving the bit pattern.
func (e *Encoder) Float32(v float32) error {
	return e.Uint32(math.Float32bits(v))
}

// Float64 writes an IEEE-754 binary64 value, preserving the bit pattern.
func (e *Encoder) Float64(v float64) error {
	return e.Uint64(math.Float64bits(v))
}

// Bool writes a bool as one byte, 0 or 1.
func (e *Encoder) Bool(v bool) error {
	if v {
		return e.Uint8(1)
	}
	return e.Uint8(0)
}

// Char writes a single character byte.
func (e *Encoder) Char(v byte) error {
	return e.Uint8(v)
}

// String writes a u32 length prefix (in bytes, which equals elements for
// a char sequence) followed by the UTF-8 bytes of s.
func (e *Encoder) String(s string) error {
	if err := e.Uint32(uint32(len(s))); err != nil {
		return err
	}
	return e.write([]byte(s))
}

// Bytes writes raw bytes with no prefix.
func (e *Encoder) Bytes(b []byte) error {
	return e.write(b)
}
