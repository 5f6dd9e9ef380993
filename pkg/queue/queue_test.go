package queue

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueBasicReserveCommitRead(t *testing.T) {
	q := New(64)
	w := q.Writer()
	r := q.Reader()

	buf, ok := w.Reserve(5)
	require.True(t, ok, "reserve should succeed on empty queue")
	copy(buf, "hello")

	// Uncommitted bytes must be invisible.
	a, b := r.BeginRead()
	assert.Empty(t, a)
	assert.Empty(t, b)
	r.EndRead()

	w.Commit()

	a, b = r.BeginRead()
	assert.Equal(t, []byte("hello"), a)
	assert.Empty(t, b)
	r.EndRead()

	// Queue is empty again.
	a, b = r.BeginRead()
	assert.Empty(t, a)
	assert.Empty(t, b)
	r.EndRead()
}

func TestQueueReserveFailsWhenFull(t *testing.T) {
	q := New(16)
	w := q.Writer()

	buf, ok := w.Reserve(16)
	require.True(t, ok, "full-capacity reservation should succeed")
	require.Len(t, buf, 16)
	w.Commit()

	_, ok = w.Reserve(1)
	assert.False(t, ok, "reserve should fail on a full queue")

	assert.Equal(t, int64(1), q.Stats().Snapshot().ReserveFailures)
}

func TestQueueReserveRejectsOversizeAndZero(t *testing.T) {
	q := New(8)
	w := q.Writer()

	_, ok := w.Reserve(9)
	assert.False(t, ok, "reservation above capacity must fail")

	_, ok = w.Reserve(0)
	assert.False(t, ok, "zero-size reservation must fail")
}

func TestQueueWraparound(t *testing.T) {
	// A batch spanning the ring's end is returned as two slices
	// whose concatenation equals the committed bytes.
	q := New(16)
	w := q.Writer()
	r := q.Reader()

	// Fill 12 of 16 bytes, then drain to move the read cursor forward.
	buf, ok := w.Reserve(12)
	require.True(t, ok)
	copy(buf, "aaaaaaaaaaaa")
	w.Commit()

	a, b := r.BeginRead()
	require.Equal(t, 12, len(a)+len(b))
	r.EndRead()

	// Only 4 linear bytes remain at the end; 12 free in total.
	// Two reservations: the second one wraps to the front.
	buf, ok = w.Reserve(4)
	require.True(t, ok)
	copy(buf, "bbbb")
	buf, ok = w.Reserve(6)
	require.True(t, ok, "reserve should skip to the front of the ring")
	copy(buf, "cccccc")
	w.Commit()

	a, b = r.BeginRead()
	assert.Equal(t, []byte("bbbb"), a)
	assert.Equal(t, []byte("cccccc"), b)
	assert.Equal(t, []byte("bbbbcccccc"), append(append([]byte{}, a...), b...))
	r.EndRead()
}

func TestQueueWrapLeavesGap(t *testing.T) {
	// The producer may not catch up with the reader when wrapping:
	// with the reader at the front, a front-region write that would
	// make the cursors equal must be rejected.
	q := New(16)
	w := q.Writer()
	r := q.Reader()

	buf, ok := w.Reserve(16)
	require.True(t, ok)
	copy(buf, bytes.Repeat([]byte{'x'}, 16))
	w.Commit()

	a, _ := r.BeginRead()
	require.Len(t, a, 16)
	r.EndRead()

	// Cursors now both at capacity; front region is free.
	// A 16-byte wrap write would make writeIndex == readIndex.
	_, ok = w.Reserve(16)
	assert.False(t, ok, "wrap reservation must keep the cursors distinct")

	buf, ok = w.Reserve(15)
	require.True(t, ok)
	copy(buf, bytes.Repeat([]byte{'y'}, 15))
	w.Commit()

	a, b := r.BeginRead()
	assert.Empty(t, a, "wrapped region before dataEnd is empty")
	assert.Equal(t, bytes.Repeat([]byte{'y'}, 15), b)
	r.EndRead()
}

func TestQueueMultipleCommits(t *testing.T) {
	q := New(64)
	w := q.Writer()
	r := q.Reader()

	for _, chunk := range []string{"one", "two", "three"} {
		buf, ok := w.Reserve(len(chunk))
		require.True(t, ok)
		copy(buf, chunk)
		w.Commit()
	}

	a, b := r.BeginRead()
	assert.Equal(t, []byte("onetwothree"), a)
	assert.Empty(t, b)
	r.EndRead()
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	// One producer goroutine, one consumer goroutine, byte stream
	// integrity across many wraps.
	const total = 1 << 16
	q := New(127) // odd capacity forces frequent wrapping

	var got []byte
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		w := q.Writer()
		next := byte(0)
		written := 0
		for written < total {
			n := 1 + written%13
			if written+n > total {
				n = total - written
			}
			buf, ok := w.Reserve(n)
			if !ok {
				continue // consumer will free space
			}
			for i := range buf {
				buf[i] = next
				next++
			}
			w.Commit()
			written += n
		}
	}()

	go func() {
		defer wg.Done()
		r := q.Reader()
		for len(got) < total {
			a, b := r.BeginRead()
			got = append(got, a...)
			got = append(got, b...)
			r.EndRead()
		}
	}()

	wg.Wait()

	require.Len(t, got, total)
	expected := byte(0)
	for i, v := range got {
		if v != expected {
			t.Fatalf("byte %d: got %d, expected %d", i, v, expected)
		}
		expected++
	}
}

func TestQueueStatistics(t *testing.T) {
	q := New(32)
	w := q.Writer()
	r := q.Reader()

	buf, ok := w.Reserve(10)
	require.True(t, ok)
	copy(buf, "0123456789")
	w.Commit()

	r.BeginRead()
	r.EndRead()

	snap := q.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Reserves)
	assert.Equal(t, int64(1), snap.Commits)
	assert.Equal(t, int64(10), snap.BytesReserved)
	assert.Equal(t, int64(10), snap.BytesRead)
}
