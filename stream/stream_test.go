package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Morgan-Stanley/binlog/codec"
	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/errors"
)

func testEventSource(id uint64, seed string, argumentTags string) entry.EventSource {
	return entry.EventSource{
		ID:           id,
		Severity:     entry.Info,
		Category:     seed,
		Function:     seed,
		File:         seed,
		Line:         uint64(len(seed)),
		FormatString: seed,
		ArgumentTags: argumentTags,
	}
}

func writeTagged(t *testing.T, buf *bytes.Buffer, tag uint64, e entry.Entry) {
	t.Helper()
	_, err := entry.WriteSizePrefixedTagged(buf, tag, e)
	require.NoError(t, err)
}

// writeCorruptTagged frames e with its last payload byte dropped: the
// frame itself is well-formed, but the entry inside is truncated.
func writeCorruptTagged(t *testing.T, buf *bytes.Buffer, tag uint64, e entry.Entry) {
	t.Helper()

	var payload bytes.Buffer
	enc := codec.NewEncoder(&payload)
	require.NoError(t, e.MarshalBinlog(enc))

	frame := codec.NewEncoder(buf)
	require.NoError(t, frame.Uint32(uint32(8+payload.Len()-1)))
	require.NoError(t, frame.Uint64(tag))
	require.NoError(t, frame.Bytes(payload.Bytes()[:payload.Len()-1]))
}

func writeEvent(t *testing.T, buf *bytes.Buffer, sourceID, clockValue uint64, args []byte) {
	t.Helper()
	enc := codec.NewEncoder(buf)
	require.NoError(t, enc.Uint32(uint32(8+8+len(args))))
	require.NoError(t, enc.Uint64(sourceID))
	require.NoError(t, enc.Uint64(clockValue))
	require.NoError(t, enc.Bytes(args))
}

func TestReadEvent(t *testing.T) {
	source := testEventSource(123, "foo", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	require.NotNil(t, e.Source)
	assert.Equal(t, source, *e.Source)
	assert.Empty(t, e.Arguments)

	e, err = es.NextEvent()
	require.NoError(t, err)
	assert.Nil(t, e, "clean EOF yields no event and no error")
}

func TestReadEventWithArgs(t *testing.T) {
	source := testEventSource(123, "foobar", "(iy[c)")

	var args bytes.Buffer
	enc := codec.NewEncoder(&args)
	require.NoError(t, enc.Int32(789))
	require.NoError(t, enc.Bool(true))
	require.NoError(t, enc.String("foo"))

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeEvent(t, &buf, 123, 99, args.Bytes())

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, uint64(99), e.ClockValue)
	assert.Equal(t, "(iy[c)", e.Source.ArgumentTags)

	r := codec.NewRange(e.Arguments)
	i, err := r.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(789), i)
	b, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, b)
	s, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
	assert.True(t, r.Empty())
}

func TestMultipleSources(t *testing.T) {
	source1 := testEventSource(123, "foo", "")
	source2 := testEventSource(0, "bar", "")
	source3 := testEventSource(124, "baz", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source1)
	writeTagged(t, &buf, entry.EventSourceTag, &source2)
	writeTagged(t, &buf, entry.EventSourceTag, &source3)
	writeEvent(t, &buf, 123, 0, nil)
	writeEvent(t, &buf, 124, 0, nil)
	writeEvent(t, &buf, 0, 0, nil)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	expected := []entry.EventSource{source1, source3, source2, source1}
	for _, want := range expected {
		e, err := es.NextEvent()
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, want, *e.Source)
	}
}

func TestSourceOverride(t *testing.T) {
	source1 := testEventSource(123, "foo", "")
	source2 := testEventSource(123, "bar", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source1)
	writeTagged(t, &buf, entry.EventSourceTag, &source2)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, source2, *e.Source, "the later definition wins")
}

func TestInvalidSourceID(t *testing.T) {
	source := testEventSource(123, "foo", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeEvent(t, &buf, 124, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	_, err := es.NextEvent()
	assert.ErrorIs(t, err, errors.ErrUnknownSource)
}

func TestContinueAfterInvalidSourceID(t *testing.T) {
	source := testEventSource(123, "foo", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeEvent(t, &buf, 124, 0, nil)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	_, err := es.NextEvent()
	require.ErrorIs(t, err, errors.ErrUnknownSource)

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, source, *e.Source)
}

func TestIncompleteSizeRewinds(t *testing.T) {
	input := bytes.NewReader([]byte{'a', 'b'})
	es := New(input)

	_, err := es.NextEvent()
	require.ErrorIs(t, err, errors.ErrShortRead)

	pos, err := input.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos, "consumed size bytes are rewound")
}

func TestIncompletePayloadRewinds(t *testing.T) {
	source := testEventSource(123, "foo", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)

	// Drop the last byte of the stream.
	data := buf.Bytes()[:buf.Len()-1]
	input := bytes.NewReader(data)
	es := New(input)

	_, err := es.NextEvent()
	require.ErrorIs(t, err, errors.ErrShortRead)

	pos, err := input.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos, "size and partial payload are rewound")
}

func TestDefaultWriterProp(t *testing.T) {
	es := New(bytes.NewReader(nil))
	assert.Equal(t, entry.WriterProp{}, es.WriterProp())
}

func TestMultipleWriterProps(t *testing.T) {
	source := testEventSource(123, "foo", "")
	prop1 := entry.WriterProp{ID: 1, Name: "foo"}
	prop2 := entry.WriterProp{ID: 1, Name: "bar"}

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeTagged(t, &buf, entry.WriterPropTag, &prop2)
	writeTagged(t, &buf, entry.WriterPropTag, &prop1)
	writeEvent(t, &buf, 123, 0, nil)
	writeTagged(t, &buf, entry.WriterPropTag, &prop2)
	writeEvent(t, &buf, 123, 0, nil)
	writeEvent(t, &buf, 123, 0, nil)
	writeTagged(t, &buf, entry.WriterPropTag, &prop1)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	expected := []entry.WriterProp{prop1, prop2, prop2, prop1}
	for _, want := range expected {
		e, err := es.NextEvent()
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, want, es.WriterProp())
	}
}

func TestCorruptWriterPropPreservesPrevious(t *testing.T) {
	source1 := testEventSource(123, "foo", "")
	source2 := testEventSource(124, "bar", "")
	prop1 := entry.WriterProp{ID: 1, Name: "foo"}
	prop2 := entry.WriterProp{ID: 1, Name: "bar"}

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source1)
	writeTagged(t, &buf, entry.EventSourceTag, &source2)
	writeTagged(t, &buf, entry.WriterPropTag, &prop1)
	writeEvent(t, &buf, 123, 0, nil)
	writeCorruptTagged(t, &buf, entry.WriterPropTag, &prop2)
	writeEvent(t, &buf, 124, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, prop1, es.WriterProp())

	_, err = es.NextEvent()
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	// After the corrupt frame, progress can be made:
	e, err = es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, source2, *e.Source)

	// and the old writer prop is not corrupted.
	assert.Equal(t, prop1, es.WriterProp())
}

func TestDefaultClockSync(t *testing.T) {
	es := New(bytes.NewReader(nil))
	assert.Equal(t, entry.ClockSync{}, es.ClockSync())
}

func TestMultipleClockSyncs(t *testing.T) {
	source := testEventSource(123, "foo", "")
	sync1 := entry.ClockSync{ClockValue: 1, ClockFrequency: 2, NsSinceEpoch: 3, TzOffset: 4, TzName: "foo"}
	sync2 := entry.ClockSync{ClockValue: 5, ClockFrequency: 6, NsSinceEpoch: 7, TzOffset: 8, TzName: "bar"}

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)
	writeTagged(t, &buf, entry.ClockSyncTag, &sync1)
	writeEvent(t, &buf, 123, 0, nil)
	writeTagged(t, &buf, entry.ClockSyncTag, &sync2)
	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, sync1, es.ClockSync())

	e, err = es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, sync2, es.ClockSync())
}

func TestCorruptClockSyncPreservesPrevious(t *testing.T) {
	source1 := testEventSource(123, "foo", "")
	source2 := testEventSource(124, "bar", "")
	sync1 := entry.ClockSync{ClockValue: 1, ClockFrequency: 2, NsSinceEpoch: 3, TzOffset: 4, TzName: "foo"}
	sync2 := entry.ClockSync{ClockValue: 5, ClockFrequency: 6, NsSinceEpoch: 7, TzOffset: 8, TzName: "bar"}

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source1)
	writeTagged(t, &buf, entry.EventSourceTag, &source2)
	writeTagged(t, &buf, entry.ClockSyncTag, &sync1)
	writeEvent(t, &buf, 123, 0, nil)
	writeCorruptTagged(t, &buf, entry.ClockSyncTag, &sync2)
	writeEvent(t, &buf, 124, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, sync1, es.ClockSync())

	_, err = es.NextEvent()
	require.Error(t, err)

	e, err = es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, source2, *e.Source)
	assert.Equal(t, sync1, es.ClockSync())
}

func TestUnknownSpecialsAreIgnored(t *testing.T) {
	// To allow schema evolution, special entries with an unknown tag
	// are skipped without error.
	source := testEventSource(123, "foo", "")

	var buf bytes.Buffer
	writeTagged(t, &buf, entry.EventSourceTag, &source)

	// A special entry from a future format version.
	unknownTag := uint64(0xFFFFFFFFFFFFFF9C)
	payload := []byte("ignore/me")
	enc := codec.NewEncoder(&buf)
	require.NoError(t, enc.Uint32(uint32(8+len(payload))))
	require.NoError(t, enc.Uint64(unknownTag))
	require.NoError(t, enc.Bytes(payload))

	writeEvent(t, &buf, 123, 0, nil)

	es := New(bytes.NewReader(buf.Bytes()))

	e, err := es.NextEvent()
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, source, *e.Source)
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], 1<<30)
	buf.Write(sizeBuf[:])

	es := New(bytes.NewReader(buf.Bytes()), WithMaxFrameSize(1024))

	_, err := es.NextEvent()
	assert.ErrorIs(t, err, errors.ErrFrameTooLarge)
}
