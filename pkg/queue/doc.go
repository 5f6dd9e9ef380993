// Package queue implements the single-producer single-consumer lock-free
// byte ring underlying binlog channels.
//
// # Overview
//
// A Queue holds a fixed-capacity byte buffer with distinct producer and
// consumer cursors. The two sides never block each other:
//
//   - The producer calls Reserve(n) for a contiguous writable slice,
//     fills it, then Commit() publishes everything reserved so far.
//     Reserve fails (returns false) when space is insufficient; the
//     caller decides whether to drop or retry.
//   - The consumer calls BeginRead() to observe all committed bytes as
//     up to two contiguous slices, processes them in place, then
//     EndRead() releases the space back to the producer.
//
// # Memory ordering
//
// Commit publishes with a single atomic store of the write cursor, so a
// subsequent BeginRead observing the new cursor also observes every byte
// written before the Commit. EndRead publishes the read cursor the same
// way, so the producer observes freed space only after the consumer is
// done with it. Go's sync/atomic operations are sequentially consistent,
// which subsumes the release/acquire pairs this protocol requires.
//
// # Reservation contract
//
// A reservation is always a single contiguous range: when the linear
// space before the end of the buffer is too small but total free space
// suffices, the producer skips to the front and the skipped padding is
// never exposed to the consumer.
//
// Statistics are always collected; they are cheap atomic counters and
// observability is not optional.
package queue
