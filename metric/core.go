package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the library-level metrics of a binlog session.
type Metrics struct {
	// Drain metrics
	DrainsTotal     prometheus.Counter
	BytesConsumed   prometheus.Counter
	ChannelsPolled  prometheus.Counter
	ChannelsRemoved prometheus.Counter
	ChannelsActive  prometheus.Gauge

	// Producer metrics
	SourcesRegistered prometheus.Counter
	EventsWritten     prometheus.Counter
	EventsDropped     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all session metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		DrainsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "drains_total",
				Help:      "Total number of consume calls",
			},
		),

		BytesConsumed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "bytes_consumed_total",
				Help:      "Total number of bytes written to output sinks",
			},
		),

		ChannelsPolled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "channels_polled_total",
				Help:      "Total number of channel polls across all drains",
			},
		),

		ChannelsRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "channels_removed_total",
				Help:      "Total number of channels removed because they were closed and empty",
			},
		),

		ChannelsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "channels_active",
				Help:      "Number of channels currently owned by the session",
			},
		),

		SourcesRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "session",
				Name:      "sources_registered_total",
				Help:      "Total number of event sources registered",
			},
		),

		EventsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "writer",
				Name:      "events_written_total",
				Help:      "Total number of events committed to channel queues",
			},
		),

		EventsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "binlog",
				Subsystem: "writer",
				Name:      "events_dropped_total",
				Help:      "Total number of events dropped because the queue was full",
			},
		),
	}
}

// collectors returns every metric for registration.
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DrainsTotal,
		m.BytesConsumed,
		m.ChannelsPolled,
		m.ChannelsRemoved,
		m.ChannelsActive,
		m.SourcesRegistered,
		m.EventsWritten,
		m.EventsDropped,
	}
}
