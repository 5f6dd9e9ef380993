package codec

import (
	"encoding/binary"
	"math"

	"github.com/Morgan-Stanley/binlog/errors"
)

// Range is a zero-copy cursor over an in-memory byte region, the decoding
// counterpart of Encoder. Reading past the end fails with ErrShortRead;
// the cursor is not advanced by a failed read.
type Range struct {
	data []byte
	off  int
}

// NewRange creates a range over b. The range borrows b: the caller must
// not mutate it while decoding.
func NewRange(b []byte) *Range {
	return &Range{data: b}
}

// Len returns the number of unread bytes.
func (r *Range) Len() int {
	return len(r.data) - r.off
}

// Empty reports whether all bytes have been read.
func (r *Range) Empty() bool {
	return r.Len() == 0
}

// Remaining returns the unread bytes as a view, without advancing.
func (r *Range) Remaining() []byte {
	return r.data[r.off:]
}

// Bytes returns the next n bytes as a view and advances past them.
func (r *Range) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, errors.ErrShortRead
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Uint8 reads a single byte.
func (r *Range) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian 16 bit unsigned integer.
func (r *Range) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian 32 bit unsigned integer.
func (r *Range) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian 64 bit unsigned integer.
func (r *Range) Uint64() (uint64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int8 reads a single byte as a signed integer.
func (r *Range) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Int16 reads a little-endian 16 bit signed integer.
func (r *Range) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads a little-endian 32 bit signed integer.
func (r *Range) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Int64 reads a little-endian 64 bit signed integer.
func (r *Range) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads an IEEE-754 binary32 value, preserving the bit pattern.
func (r *Range) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE-754 binary64 value, preserving the bit pattern.
func (r *Range) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Bool reads one byte as a bool. Any nonzero byte is true.
func (r *Range) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

// Char reads a single character byte.
func (r *Range) Char() (byte, error) {
	return r.Uint8()
}

// String reads a u32 length prefix followed by that many bytes.
func (r *Range) String() (string, error) {
	b, err := r.StringView()
	return string(b), err
}

// StringView reads a u32 length prefixed byte sequence as a view into the
// underlying buffer, without copying.
func (r *Range) StringView() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}
