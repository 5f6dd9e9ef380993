// Package codec implements the binlog structural serialization format.
//
// # Wire format
//
// All values use a fixed, little-endian encoding:
//
//   - integers: fixed-width little-endian (i8..i64, u8..u64)
//   - floats: IEEE-754 binary32/64, bit pattern preserved
//   - bool: one byte, 0 or 1
//   - variable-size sequences (including strings): u32 element count
//     prefix, then the elements
//   - fixed-size sequences: exactly N elements, no prefix
//   - tuples and records: fields concatenated in declaration order,
//     no prefix, no field names
//   - variants and optionals: one-byte discriminator; 0 is the null
//     branch with no payload, 1.. select a value branch
//   - enums: the underlying integer
//
// Encoder serializes to an io.Writer; Range is the zero-copy decoding
// cursor over an in-memory payload. Types serialize themselves via the
// Marshaler/Unmarshaler/Sizer interfaces; SerializedSize must report the
// exact byte count MarshalBinlog produces.
//
// # Type tags
//
// A type tag is a compact textual description of a value's structural
// type (see tag.go for the grammar). Tags let Visit walk a serialized
// value without its compile-time type: the visitor receives a structural
// event for every primitive, sequence, tuple, variant, enum, struct and
// field, consuming exactly the bytes a typed deserializer would.
// Recursive structs are expressed as name-based back-references resolved
// against the enclosing struct tags during visitation.
package codec
