package codec

import (
	"strconv"
	"strings"

	"github.com/Morgan-Stanley/binlog/errors"
)

// Visit walks the value serialized in r according to its type tag,
// calling v on each structural event. It consumes exactly the bytes a
// round-trip deserializer of the same type would.
//
// Short input, an out-of-range variant discriminator, and a malformed
// tag are hard errors: the walk stops and the cursor position of r is
// unspecified.
func Visit(tag string, v Visitor, r *Range) error {
	return visitTag(tag, v, r, nil)
}

// visitTag dispatches one complete tag. scope holds the enclosing struct
// tags, innermost last, for resolving recursive references.
func visitTag(tag string, v Visitor, r *Range, scope []*StructTag) error {
	if tag == "" {
		return errors.ErrBadTag
	}

	switch tag[0] {
	case 'y':
		val, err := r.Bool()
		if err != nil {
			return err
		}
		return v.VisitBool(val)
	case 'b':
		val, err := r.Int8()
		if err != nil {
			return err
		}
		return v.VisitInt8(val)
	case 'B':
		val, err := r.Uint8()
		if err != nil {
			return err
		}
		return v.VisitUint8(val)
	case 's':
		val, err := r.Int16()
		if err != nil {
			return err
		}
		return v.VisitInt16(val)
	case 'S':
		val, err := r.Uint16()
		if err != nil {
			return err
		}
		return v.VisitUint16(val)
	case 'i':
		val, err := r.Int32()
		if err != nil {
			return err
		}
		return v.VisitInt32(val)
	case 'I':
		val, err := r.Uint32()
		if err != nil {
			return err
		}
		return v.VisitUint32(val)
	case 'l':
		val, err := r.Int64()
		if err != nil {
			return err
		}
		return v.VisitInt64(val)
	case 'L':
		val, err := r.Uint64()
		if err != nil {
			return err
		}
		return v.VisitUint64(val)
	case 'f':
		val, err := r.Float32()
		if err != nil {
			return err
		}
		return v.VisitFloat32(val)
	case 'd':
		val, err := r.Float64()
		if err != nil {
			return err
		}
		return v.VisitFloat64(val)
	case 'c':
		val, err := r.Char()
		if err != nil {
			return err
		}
		return v.VisitChar(val)
	case '[':
		return visitSequence(tag, v, r, scope)
	case '(':
		return visitTuple(tag, v, r, scope)
	case '<':
		return visitVariant(tag, v, r, scope)
	case '/':
		return visitEnum(tag, v, r)
	case '{':
		return visitStruct(tag, v, r, scope)
	}

	return errors.ErrBadTag
}

func visitSequence(tag string, v Visitor, r *Range, scope []*StructTag) error {
	rest := tag[1:]

	// A leading digit group denotes a fixed element count with no
	// wire prefix.
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	// A lone 0 is the null tag, not a count.
	if digits == len(rest) {
		digits = 0
	}

	var size uint32
	elemTag := rest
	if digits > 0 {
		n, err := strconv.ParseUint(rest[:digits], 10, 32)
		if err != nil {
			return errors.ErrBadTag
		}
		size = uint32(n)
		elemTag = rest[digits:]
	} else {
		n, err := r.Uint32()
		if err != nil {
			return err
		}
		size = n
	}

	if elemTag == "c" {
		// Character sequences are delivered as zero-copy strings.
		b, err := r.Bytes(int(size))
		if err != nil {
			return err
		}
		return v.VisitString(b)
	}

	if err := v.VisitSequenceBegin(size, elemTag); err != nil {
		return err
	}
	for i := uint32(0); i < size; i++ {
		if err := visitTag(elemTag, v, r, scope); err != nil {
			return err
		}
	}
	return v.VisitSequenceEnd()
}

func visitTuple(tag string, v Visitor, r *Range, scope []*StructTag) error {
	if tag[len(tag)-1] != ')' {
		return errors.ErrBadTag
	}
	inner := tag[1 : len(tag)-1]

	if err := v.VisitTupleBegin(inner); err != nil {
		return err
	}
	for rest := inner; rest != ""; {
		var elem string
		var err error
		elem, rest, err = FirstTag(rest)
		if err != nil {
			return err
		}
		if err := visitTag(elem, v, r, scope); err != nil {
			return err
		}
	}
	return v.VisitTupleEnd()
}

func visitVariant(tag string, v Visitor, r *Range, scope []*StructTag) error {
	if tag[len(tag)-1] != '>' {
		return errors.ErrBadTag
	}
	branches, err := splitTags(tag[1 : len(tag)-1])
	if err != nil {
		return err
	}

	disc, err := r.Uint8()
	if err != nil {
		return err
	}
	if int(disc) >= len(branches) {
		return errors.ErrBadDiscriminator
	}
	branch := branches[disc]

	if err := v.VisitVariantBegin(disc, branch); err != nil {
		return err
	}
	if branch == "0" {
		if err := v.VisitNull(); err != nil {
			return err
		}
	} else if err := visitTag(branch, v, r, scope); err != nil {
		return err
	}
	return v.VisitVariantEnd()
}

func visitEnum(tag string, v Visitor, r *Range) error {
	et, err := parseEnumTag(tag)
	if err != nil {
		return err
	}

	hex, err := readEnumValue(et.Underlying, r)
	if err != nil {
		return err
	}

	return v.VisitEnum(Enum{
		Name:       et.Name,
		Enumerator: et.Label(hex),
		Tag:        et.Underlying,
		Value:      hex,
	})
}

// readEnumValue decodes the underlying integer and renders it to
// big-endian hex: uppercase digits, '-' prefix for negative values.
func readEnumValue(underlying byte, r *Range) (string, error) {
	var signed int64
	var unsigned uint64
	isSigned := false

	switch underlying {
	case 'b':
		v, err := r.Int8()
		if err != nil {
			return "", err
		}
		signed, isSigned = int64(v), true
	case 's':
		v, err := r.Int16()
		if err != nil {
			return "", err
		}
		signed, isSigned = int64(v), true
	case 'i':
		v, err := r.Int32()
		if err != nil {
			return "", err
		}
		signed, isSigned = int64(v), true
	case 'l':
		v, err := r.Int64()
		if err != nil {
			return "", err
		}
		signed, isSigned = v, true
	case 'B', 'c', 'y':
		v, err := r.Uint8()
		if err != nil {
			return "", err
		}
		unsigned = uint64(v)
	case 'S':
		v, err := r.Uint16()
		if err != nil {
			return "", err
		}
		unsigned = uint64(v)
	case 'I':
		v, err := r.Uint32()
		if err != nil {
			return "", err
		}
		unsigned = uint64(v)
	case 'L':
		v, err := r.Uint64()
		if err != nil {
			return "", err
		}
		unsigned = v
	default:
		return "", errors.ErrBadTag
	}

	if isSigned {
		return strings.ToUpper(strconv.FormatInt(signed, 16)), nil
	}
	return strings.ToUpper(strconv.FormatUint(unsigned, 16)), nil
}

func visitStruct(tag string, v Visitor, r *Range, scope []*StructTag) error {
	st, err := parseStructTag(tag)
	if err != nil {
		return err
	}

	// A field-less struct tag names the nearest enclosing struct of
	// the same name (recursive reference). A name that resolves to
	// nothing is a genuinely empty struct.
	if st.FieldTags == "" {
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i].Name == st.Name {
				st = scope[i]
				break
			}
		}
	}

	scope = append(scope, st)

	if err := v.VisitStructBegin(st.Name, st.FieldTags); err != nil {
		return err
	}
	for _, field := range st.Fields {
		if err := v.VisitFieldBegin(field.Name, field.Tag); err != nil {
			return err
		}
		if err := visitTag(field.Tag, v, r, scope); err != nil {
			return err
		}
		if err := v.VisitFieldEnd(); err != nil {
			return err
		}
	}
	return v.VisitStructEnd()
}
