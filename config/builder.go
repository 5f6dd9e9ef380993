package config

import (
	"github.com/nats-io/nats.go"

	"github.com/Morgan-Stanley/binlog/errors"
	"github.com/Morgan-Stanley/binlog/metric"
	"github.com/Morgan-Stanley/binlog/session"
	"github.com/Morgan-Stanley/binlog/sink"
)

// Runtime is a session and its sink, built from a Config.
type Runtime struct {
	Session *session.Session
	Sink    sink.Sink
	// Metrics is non-nil when the config enables metrics.
	Metrics *metric.Registry

	closers []func() error
}

// Build constructs the session and sink described by the config.
// A nats sink dials the configured server; the connection is closed by
// Runtime.Close.
func (c *Config) Build() (*Runtime, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rt := &Runtime{}

	var opts []session.Option
	if c.Session.Metrics {
		reg, err := metric.NewRegistry()
		if err != nil {
			return nil, err
		}
		rt.Metrics = reg
		opts = append(opts, session.WithMetrics(reg))
	}
	rt.Session = session.New(opts...)
	rt.Session.SetMinSeverity(c.Session.MinSeverity)

	switch c.Sink.Type {
	case SinkTypeMemory:
		rt.Sink = sink.NewMemory()

	case SinkTypeFile:
		f, err := sink.NewFile(c.Sink.Path)
		if err != nil {
			return nil, err
		}
		rt.Sink = f
		rt.closers = append(rt.closers, f.Close)

	case SinkTypeNATS:
		conn, err := nats.Connect(c.Sink.URL)
		if err != nil {
			return nil, errors.WrapTransient(err, "Config", "Build", "connect to nats")
		}
		n, err := sink.NewNATS(conn, c.Sink.Subject)
		if err != nil {
			conn.Close()
			return nil, err
		}
		rt.Sink = n
		rt.closers = append(rt.closers, func() error {
			conn.Close()
			return nil
		})
	}

	return rt, nil
}

// Close releases the resources held by the sink.
func (rt *Runtime) Close() error {
	var first error
	for _, close := range rt.closers {
		if err := close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
