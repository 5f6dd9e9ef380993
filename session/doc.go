// Package session implements the concurrency core of binlog: the
// session that owns producer channels, assigns event source ids, and
// drains everything into an output stream.
//
// # Ordering
//
// The session's single guarantee to readers is that metadata precedes
// the data referencing it: an event source is always consumed before
// any event that names its id (registration takes the same mutex as the
// drain). Events from one channel are drained in commit order; events
// from different channels are only ordered by channel creation order
// within a drain, never globally.
//
// # Concurrency
//
// Channel queues are single-producer single-consumer and lock-free; the
// session mutex serializes everything else: channel membership, writer
// props, the source list, and the drain itself. Producers never block
// the consumer and vice versa; the mutex is uncontended in the steady
// state. The minimum severity is a lock-free atomic that producers
// treat as advisory.
package session
