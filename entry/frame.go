package entry

import (
	"io"

	"github.com/Morgan-Stanley/binlog/codec"
)

// Entry is anything that can be framed on the wire: it knows its exact
// serialized size and how to write itself.
type Entry interface {
	codec.Marshaler
	codec.Sizer
}

// FrameSize returns the total on-wire size of a tagged frame carrying e:
// the u32 size prefix, the u64 entry tag, and the payload.
func FrameSize(e codec.Sizer) int {
	return codec.SizeUint32 + codec.SizeUint64 + e.SerializedSize()
}

// WriteSizePrefixedTagged frames e on the wire:
//
//	size:u32 | tag:u64 | payload
//
// where size counts the tag and the payload. It returns the number of
// bytes written.
func WriteSizePrefixedTagged(w io.Writer, tag uint64, e Entry) (int, error) {
	enc := codec.NewEncoder(w)
	if err := enc.Uint32(uint32(codec.SizeUint64 + e.SerializedSize())); err != nil {
		return enc.Written(), err
	}
	if err := enc.Uint64(tag); err != nil {
		return enc.Written(), err
	}
	if err := e.MarshalBinlog(enc); err != nil {
		return enc.Written(), err
	}
	return enc.Written(), nil
}
