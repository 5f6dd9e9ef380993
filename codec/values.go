package codec

import (
	"github.com/Morgan-Stanley/binlog/errors"
)

// Marshaler is implemented by types that serialize themselves with the
// binlog wire format. Implementations write fields in declaration order
// with no length prefix and no field names, per the tuple rule.
type Marshaler interface {
	MarshalBinlog(*Encoder) error
}

// Unmarshaler is implemented by types that deserialize themselves from a
// Range. A failed unmarshal may leave the target partially written;
// callers that need all-or-nothing updates decode into a fresh value and
// assign on success.
type Unmarshaler interface {
	UnmarshalBinlog(*Range) error
}

// Sizer reports the exact number of bytes MarshalBinlog would produce.
type Sizer interface {
	SerializedSize() int
}

// EncodeSlice writes a variable-size sequence: a u32 element count
// followed by each element encoded by elem.
func EncodeSlice[T any](e *Encoder, xs []T, elem func(*Encoder, T) error) error {
	if err := e.Uint32(uint32(len(xs))); err != nil {
		return err
	}
	for _, x := range xs {
		if err := elem(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSlice reads a variable-size sequence encoded by EncodeSlice.
func DecodeSlice[T any](r *Range, elem func(*Range) (T, error)) ([]T, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if int(n) > r.Len() {
		// Even one-byte elements cannot fit: the count is corrupt.
		// Checked up front so a hostile prefix cannot force a huge
		// allocation.
		return nil, errors.ErrCorruptEntry
	}
	xs := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		x, err := elem(r)
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return xs, nil
}

// EncodeFixed writes a fixed-size sequence: exactly len(xs) elements with
// no length prefix. The element count is part of the type, not the wire.
func EncodeFixed[T any](e *Encoder, xs []T, elem func(*Encoder, T) error) error {
	for _, x := range xs {
		if err := elem(e, x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFixed reads exactly len(dst) elements with no length prefix.
func DecodeFixed[T any](r *Range, dst []T, elem func(*Range) (T, error)) error {
	for i := range dst {
		x, err := elem(r)
		if err != nil {
			return err
		}
		dst[i] = x
	}
	return nil
}

// DecodeSliceInto reads a variable-size sequence into the fixed-size dst.
// A wire element count that disagrees with len(dst) is a hard error.
func DecodeSliceInto[T any](r *Range, dst []T, elem func(*Range) (T, error)) error {
	n, err := r.Uint32()
	if err != nil {
		return err
	}
	if int(n) != len(dst) {
		return errors.ErrSizeMismatch
	}
	return DecodeFixed(r, dst, elem)
}

// EncodeOption writes a variant-of-one: discriminator 0 for absent, or 1
// followed by the value encoded by elem. This is the wire form of owning
// pointers and optionals.
func EncodeOption[T any](e *Encoder, v *T, elem func(*Encoder, T) error) error {
	if v == nil {
		return e.Uint8(0)
	}
	if err := e.Uint8(1); err != nil {
		return err
	}
	return elem(e, *v)
}

// DecodeOption reads a variant-of-one encoded by EncodeOption.
// Discriminators above 1 are rejected.
func DecodeOption[T any](r *Range, elem func(*Range) (T, error)) (*T, error) {
	disc, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	switch disc {
	case 0:
		return nil, nil
	case 1:
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, errors.ErrBadDiscriminator
	}
}

// Size helpers: the byte counts the corresponding Encoder methods produce.

// SizeUint8 is the serialized size of a u8, bool or char.
const SizeUint8 = 1

// SizeUint16 is the serialized size of a u16 or i16.
const SizeUint16 = 2

// SizeUint32 is the serialized size of a u32, i32 or f32.
const SizeUint32 = 4

// SizeUint64 is the serialized size of a u64, i64 or f64.
const SizeUint64 = 8

// SizeString is the serialized size of a string: length prefix plus bytes.
func SizeString(s string) int {
	return SizeUint32 + len(s)
}
