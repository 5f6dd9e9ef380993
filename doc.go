// Package binlog is a high-throughput structured binary logging library.
//
// # Architecture
//
// Producer goroutines append typed events into per-producer lock-free
// byte queues; a single consumer periodically drains every queue into a
// byte sink as a self-describing, forward-compatible binary stream; a
// reader parses the stream back into typed events.
//
//	writer --> channel queue -+
//	writer --> channel queue -+-> session drain -> sink -> stream reader -> event
//	writer --> channel queue -+                                 |
//	                                                            v
//	                                                     visitor dispatch
//
// The packages map onto that pipeline:
//
//   - pkg/queue: the single-producer single-consumer byte ring
//   - codec: structural serialization, type tags, visitor dispatch
//   - entry: the stream's records (events, sources, writer props,
//     clock syncs) and their framing
//   - session: channel ownership, source id assignment, and the
//     metadata-before-data drain
//   - writer: the producer front-end with the advisory severity gate
//   - stream: the event stream reader
//   - sink: memory, file (with rotation) and NATS destinations
//   - config: YAML setup of sessions and sinks
//   - metric: optional Prometheus instrumentation
//   - errors: classified error handling shared by all of the above
//
// # Guarantees
//
// Every event source is written to the output before any event that
// references it, so a reader never meets an event it cannot interpret.
// Events from one channel appear in commit order; no ordering is
// claimed across channels. Sinks always receive whole frames.
package binlog
