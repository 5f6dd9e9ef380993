// Package entry defines the records of the binlog stream format and
// their framing.
//
// Every entry on the wire is a frame: a u32 size prefix followed by a
// u64 entry tag and the payload. Tags with the high bit set are special
// entries carrying metadata (EventSource, WriterProp, ClockSync, and
// values reserved for future extension); tags with the high bit clear
// are data events, the tag being the event's source id.
//
// A data event payload after the tag is the event's clock value (u64)
// followed by the argument bytes serialized per the referenced source's
// ArgumentTags. Special entry payloads are the respective record
// serialized field by field with the codec rules.
package entry
