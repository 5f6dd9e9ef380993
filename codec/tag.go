package codec

import (
	"strings"

	"github.com/Morgan-Stanley/binlog/errors"
)

// The tag language describes the structural type of a serialized value:
//
//	y bool   b i8   B u8   s i16  S u16  i i32  I u32
//	l i64    L u64  f f32  d f64  c char
//
//	[T        variable-size sequence of T
//	[NT       fixed-size sequence of N elements of T (no wire prefix)
//	(T1T2...) tuple
//	<T0T1...> variant, one-byte discriminator indexes the branch tags;
//	          the branch tag 0 denotes the null branch (no payload)
//	/U`Name'hex`Label'...\   enum with underlying type U, enumerator
//	          values in big-endian hex
//	{Name`field'T...}        struct; {Name} with no fields refers back
//	          to the nearest enclosing struct tag of that name
//
// A tag is self-delimiting: FirstTag consumes exactly one type.

const primitiveTags = "ybBsSiIlLfdc"

// IsPrimitiveTag reports whether c is a primitive tag letter.
func IsPrimitiveTag(c byte) bool {
	return strings.IndexByte(primitiveTags, c) >= 0
}

// FirstTag splits tags into its first complete tag and the remainder.
func FirstTag(tags string) (tag string, rest string, err error) {
	n, err := firstTagLen(tags)
	if err != nil {
		return "", "", err
	}
	return tags[:n], tags[n:], nil
}

// firstTagLen returns the length of the first complete tag in s.
func firstTagLen(s string) (int, error) {
	if s == "" {
		return 0, errors.ErrBadTag
	}

	c := s[0]
	switch {
	case IsPrimitiveTag(c), c == '0':
		return 1, nil

	case c == '[':
		i := 1
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i > 1 && i == len(s) {
			return 0, errors.ErrBadTag
		}
		n, err := firstTagLen(s[i:])
		if err != nil {
			return 0, err
		}
		return i + n, nil

	case c == '(':
		i := 1
		for {
			if i >= len(s) {
				return 0, errors.ErrBadTag
			}
			if s[i] == ')' {
				return i + 1, nil
			}
			n, err := firstTagLen(s[i:])
			if err != nil {
				return 0, err
			}
			i += n
		}

	case c == '<':
		i := 1
		for {
			if i >= len(s) {
				return 0, errors.ErrBadTag
			}
			if s[i] == '>' {
				return i + 1, nil
			}
			n, err := firstTagLen(s[i:])
			if err != nil {
				return 0, err
			}
			i += n
		}

	case c == '/':
		// Enum tags contain no nested tags: scan for the terminator.
		end := strings.IndexByte(s, '\\')
		if end < 0 {
			return 0, errors.ErrBadTag
		}
		return end + 1, nil

	case c == '{':
		i := 1
		for i < len(s) && s[i] != '`' && s[i] != '}' {
			i++
		}
		for i < len(s) && s[i] == '`' {
			i++
			apos := strings.IndexByte(s[i:], '\'')
			if apos < 0 {
				return 0, errors.ErrBadTag
			}
			i += apos + 1
			n, err := firstTagLen(s[i:])
			if err != nil {
				return 0, err
			}
			i += n
		}
		if i >= len(s) || s[i] != '}' {
			return 0, errors.ErrBadTag
		}
		return i + 1, nil
	}

	return 0, errors.ErrBadTag
}

// splitTags splits a concatenation of complete tags into its components.
func splitTags(tags string) ([]string, error) {
	var out []string
	for tags != "" {
		tag, rest, err := FirstTag(tags)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
		tags = rest
	}
	return out, nil
}

// Enumerator is one declared value of an enum tag.
type Enumerator struct {
	Value string // enumerator integer value in big-endian hex
	Label string
}

// EnumTag is the parsed form of an enum type tag.
type EnumTag struct {
	Underlying  byte // primitive tag letter of the underlying type
	Name        string
	Enumerators []Enumerator
}

// Label returns the label of the enumerator matching the hex value,
// or the empty string if the value is not declared.
func (et *EnumTag) Label(hex string) string {
	for _, e := range et.Enumerators {
		if e.Value == hex {
			return e.Label
		}
	}
	return ""
}

// parseEnumTag parses a /U`Name'hex`Label'...\ tag.
func parseEnumTag(tag string) (*EnumTag, error) {
	if len(tag) < 3 || tag[0] != '/' || tag[len(tag)-1] != '\\' {
		return nil, errors.ErrBadTag
	}
	et := &EnumTag{Underlying: tag[1]}
	if !IsPrimitiveTag(et.Underlying) {
		return nil, errors.ErrBadTag
	}

	s := tag[2 : len(tag)-1]
	if s == "" || s[0] != '`' {
		return nil, errors.ErrBadTag
	}
	apos := strings.IndexByte(s, '\'')
	if apos < 0 {
		return nil, errors.ErrBadTag
	}
	et.Name = s[1:apos]
	s = s[apos+1:]

	for s != "" {
		tick := strings.IndexByte(s, '`')
		if tick < 0 {
			return nil, errors.ErrBadTag
		}
		value := s[:tick]
		s = s[tick+1:]
		apos = strings.IndexByte(s, '\'')
		if apos < 0 {
			return nil, errors.ErrBadTag
		}
		et.Enumerators = append(et.Enumerators, Enumerator{Value: value, Label: s[:apos]})
		s = s[apos+1:]
	}
	return et, nil
}

// StructField is one declared field of a struct tag.
type StructField struct {
	Name string
	Tag  string
}

// StructTag is the parsed form of a struct type tag.
type StructTag struct {
	Name   string
	Fields []StructField

	// Raw field list as it appears in the tag, starting at the first
	// backtick; empty for field-less tags.
	FieldTags string
}

// parseStructTag parses a {Name`field'T...} tag.
func parseStructTag(tag string) (*StructTag, error) {
	if len(tag) < 2 || tag[0] != '{' || tag[len(tag)-1] != '}' {
		return nil, errors.ErrBadTag
	}
	s := tag[1 : len(tag)-1]

	nameEnd := strings.IndexByte(s, '`')
	if nameEnd < 0 {
		return &StructTag{Name: s}, nil
	}

	st := &StructTag{Name: s[:nameEnd], FieldTags: s[nameEnd:]}
	s = s[nameEnd:]
	for s != "" {
		if s[0] != '`' {
			return nil, errors.ErrBadTag
		}
		apos := strings.IndexByte(s, '\'')
		if apos < 0 {
			return nil, errors.ErrBadTag
		}
		fieldName := s[1:apos]
		s = s[apos+1:]
		n, err := firstTagLen(s)
		if err != nil {
			return nil, err
		}
		st.Fields = append(st.Fields, StructField{Name: fieldName, Tag: s[:n]})
		s = s[n:]
	}
	return st, nil
}
