package codec

// Enum describes an enum value delivered to a visitor.
type Enum struct {
	Name       string // enum type name from the tag
	Enumerator string // matched enumerator label, or "" if undeclared
	Tag        byte   // primitive tag letter of the underlying type
	Value      string // value in big-endian hex, '-' prefixed if negative
}

// Visitor receives the structural events of a serialized value as Visit
// walks it. Any callback may stop the walk by returning an error; the
// error is propagated unchanged.
//
// VisitString is called instead of per-element callbacks for character
// sequences, delivering a zero-copy view of the bytes.
type Visitor interface {
	VisitBool(bool) error
	VisitInt8(int8) error
	VisitUint8(uint8) error
	VisitInt16(int16) error
	VisitUint16(uint16) error
	VisitInt32(int32) error
	VisitUint32(uint32) error
	VisitInt64(int64) error
	VisitUint64(uint64) error
	VisitFloat32(float32) error
	VisitFloat64(float64) error
	VisitChar(byte) error
	VisitString([]byte) error

	VisitSequenceBegin(size uint32, elemTag string) error
	VisitSequenceEnd() error

	VisitTupleBegin(tags string) error
	VisitTupleEnd() error

	VisitVariantBegin(discriminator uint8, tag string) error
	VisitVariantEnd() error
	VisitNull() error

	VisitEnum(Enum) error

	VisitStructBegin(name, fieldTags string) error
	VisitStructEnd() error
	VisitFieldBegin(name, tag string) error
	VisitFieldEnd() error
}
