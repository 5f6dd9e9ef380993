package queue

import (
	"sync/atomic"
)

// Queue is a fixed-capacity single-producer single-consumer ring of bytes.
//
// The producer reserves a contiguous region, fills it, then commits it in
// one release step. The consumer observes committed bytes as up to two
// contiguous slices (the region may wrap around the end of the buffer).
// Neither side ever blocks the other.
//
// Cursor protocol: readIndex and writeIndex are offsets in [0, capacity].
// readIndex == writeIndex means the queue is empty. When the producer
// wraps to the front before reaching capacity, dataEnd marks where valid
// data ends; it is only meaningful while writeIndex < readIndex.
type Queue struct {
	buf      []byte
	capacity uint64

	// Written by the consumer, observed by the producer.
	readIndex atomic.Uint64

	// Written by the producer, observed by the consumer.
	writeIndex atomic.Uint64
	dataEnd    atomic.Uint64

	stats *Statistics
}

// New creates a queue with the given byte capacity.
// Capacity below one is raised to one.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		buf:      make([]byte, capacity),
		capacity: uint64(capacity),
		stats:    NewStatistics(),
	}
}

// Capacity returns the queue's byte capacity.
func (q *Queue) Capacity() int {
	return int(q.capacity)
}

// Stats returns the queue statistics (always collected).
func (q *Queue) Stats() *Statistics {
	return q.stats
}

// Writer returns the producer handle of the queue.
// It must be used by a single goroutine at a time.
func (q *Queue) Writer() *Writer {
	return &Writer{queue: q}
}

// Reader returns the consumer handle of the queue.
// It must be used by a single goroutine at a time.
func (q *Queue) Reader() *Reader {
	return &Reader{queue: q}
}

// Writer is the producer capability of a Queue.
// It caches the write cursor between Reserve and Commit so that
// reserved-but-uncommitted bytes are invisible to the consumer.
type Writer struct {
	queue *Queue

	writeIndex uint64
	dataEnd    uint64
}

// Reserve returns a contiguous writable slice of n bytes, or false if the
// free space does not allow it. A reservation never wraps: if the linear
// space before the end of the buffer is insufficient, the writer skips to
// the front, leaving padding bytes that the reader will never observe.
//
// Reserved bytes become visible to the consumer only after Commit.
// Multiple reservations may be made before a single Commit.
func (w *Writer) Reserve(n int) ([]byte, bool) {
	q := w.queue
	size := uint64(n)
	if size == 0 || size > q.capacity {
		q.stats.ReserveFailure()
		return nil, false
	}

	r := q.readIndex.Load()

	if w.writeIndex >= r {
		// Free region extends to the end of the buffer,
		// and wraps to [0, r).
		if q.capacity-w.writeIndex >= size {
			buf := q.buf[w.writeIndex : w.writeIndex+size]
			w.dataEnd = w.writeIndex + size
			w.writeIndex += size
			q.stats.Reserve(int64(n))
			return buf, true
		}
		// Strictly less than r: writeIndex must not catch up with
		// readIndex, that would be indistinguishable from empty.
		if size < r {
			w.dataEnd = w.writeIndex
			w.writeIndex = size
			q.stats.Reserve(int64(n))
			return q.buf[:size], true
		}
		q.stats.ReserveFailure()
		return nil, false
	}

	// Writer is behind the reader: free region is [writeIndex, r).
	if r-w.writeIndex > size {
		buf := q.buf[w.writeIndex : w.writeIndex+size]
		w.writeIndex += size
		q.stats.Reserve(int64(n))
		return buf, true
	}
	q.stats.ReserveFailure()
	return nil, false
}

// Rollback discards every reservation made since the previous Commit.
// The write cursor returns to its last published position, so a
// half-built frame is never exposed to the consumer.
func (w *Writer) Rollback() {
	q := w.queue
	w.writeIndex = q.writeIndex.Load()
	w.dataEnd = q.dataEnd.Load()
}

// Commit publishes every byte reserved since the previous Commit in one
// release step. The consumer's next BeginRead observes all of them.
func (w *Writer) Commit() {
	q := w.queue
	// dataEnd must be published no later than writeIndex: the consumer
	// loads dataEnd only after observing writeIndex < readIndex.
	q.dataEnd.Store(w.dataEnd)
	q.writeIndex.Store(w.writeIndex)
	q.stats.Commit()
}

// Reader is the consumer capability of a Queue.
type Reader struct {
	queue *Queue

	// Read cursor after the pending EndRead, and the size of the
	// region observed by the pending BeginRead.
	next     uint64
	pendSize int64
	pend     bool
}

// BeginRead atomically observes the committed write cursor and returns the
// readable bytes as two contiguous slices. The second slice is non-empty
// only when the committed region wraps around the end of the buffer.
// Either slice may be empty. The bytes remain in the queue until EndRead.
func (r *Reader) BeginRead() ([]byte, []byte) {
	q := r.queue
	w := q.writeIndex.Load()
	ri := q.readIndex.Load()

	if w >= ri {
		r.next = w
		r.pendSize = int64(w - ri)
		r.pend = true
		return q.buf[ri:w], nil
	}

	// Producer wrapped: valid data is [ri, dataEnd) then [0, w).
	de := q.dataEnd.Load()
	r.next = w
	r.pendSize = int64((de - ri) + w)
	r.pend = true
	return q.buf[ri:de], q.buf[:w]
}

// EndRead releases the region returned by the previous BeginRead,
// making the space available to the producer.
func (r *Reader) EndRead() {
	if !r.pend {
		return
	}
	q := r.queue
	q.readIndex.Store(r.next)
	q.stats.Read(r.pendSize)
	r.pend = false
	r.pendSize = 0
}
