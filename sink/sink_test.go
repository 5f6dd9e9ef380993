package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Morgan-Stanley/binlog/errors"
)

func TestMemorySink(t *testing.T) {
	m := NewMemory()

	n, err := m.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = m.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, []byte("abcdef"), m.Bytes())
	assert.Equal(t, 6, m.Len())

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.blog")

	f, err := NewFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, path, f.Path())
}

func TestFileSinkRotate(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.blog")
	second := filepath.Join(dir, "second.blog")

	f, err := NewFile(first)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("one"))
	require.NoError(t, err)

	require.NoError(t, f.Rotate(second))
	assert.Equal(t, second, f.Path())

	_, err = f.Write([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFileSinkRotateFailureKeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.blog")

	f, err := NewFile(path)
	require.NoError(t, err)
	defer f.Close()

	err = f.Rotate(filepath.Join(dir, "missing", "out.blog"))
	require.Error(t, err)
	assert.Equal(t, path, f.Path())

	_, err = f.Write([]byte("still writable"))
	assert.NoError(t, err)
}

// fakePublisher records published messages.
type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, append([]byte{}, data...))
	return nil
}

func TestNATSSink(t *testing.T) {
	pub := &fakePublisher{}
	n, err := NewNATS(pub, "logs.binary")
	require.NoError(t, err)

	written, err := n.Write([]byte("frame1"))
	require.NoError(t, err)
	assert.Equal(t, 6, written)

	_, err = n.Write([]byte("frame2"))
	require.NoError(t, err)

	require.Len(t, pub.payloads, 2)
	assert.Equal(t, []string{"logs.binary", "logs.binary"}, pub.subjects)
	assert.Equal(t, []byte("frame1"), pub.payloads[0])
	assert.Equal(t, []byte("frame2"), pub.payloads[1])
}

func TestNATSSinkPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no route")}
	n, err := NewNATS(pub, "logs.binary")
	require.NoError(t, err)

	written, err := n.Write([]byte("frame"))
	assert.Error(t, err)
	assert.Zero(t, written)
}

func TestNATSSinkValidation(t *testing.T) {
	_, err := NewNATS(nil, "subject")
	assert.Error(t, err)

	_, err = NewNATS(&fakePublisher{}, "")
	assert.Error(t, err)
}
