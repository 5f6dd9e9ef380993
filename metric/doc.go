// Package metric exposes binlog session and writer activity as
// Prometheus metrics.
//
// Metrics are optional: a session or writer records them only when
// constructed with a Registry. Session counters are updated at drain
// time and on channel and source registration; a writer with metrics
// enabled increments one counter per committed or dropped event.
package metric
