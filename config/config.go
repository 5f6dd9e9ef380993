// Package config loads declarative binlog setups from YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Morgan-Stanley/binlog/entry"
	"github.com/Morgan-Stanley/binlog/errors"
)

// Sink type constants
const (
	SinkTypeFile   = "file"   // append the stream to a file
	SinkTypeMemory = "memory" // keep the stream in memory (tests, tools)
	SinkTypeNATS   = "nats"   // publish drained writes on a subject
)

// Config describes a session and the sink its drains write to.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Sink    SinkConfig    `yaml:"sink"`
}

// SessionConfig holds session-level settings.
type SessionConfig struct {
	// QueueCapacity is the configured byte capacity for writer queues.
	// Validate requires it to be positive; Build creates no writers and
	// does not apply it to any channel.
	QueueCapacity int `yaml:"queue_capacity"`
	// MinSeverity is the advisory producer-side filter, by name
	// (trace, debug, info, warning, error, critical, no_logs).
	MinSeverity entry.Severity `yaml:"min_severity"`
	// Metrics enables the Prometheus metric set for the session.
	Metrics bool `yaml:"metrics"`
}

// SinkConfig selects and parameterizes the drain destination.
type SinkConfig struct {
	Type string `yaml:"type"`
	// Path is the output file, for file sinks.
	Path string `yaml:"path"`
	// URL and Subject address the NATS server, for nats sinks.
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// DefaultConfig returns the configuration used when a field is omitted.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			QueueCapacity: 1 << 20,
			MinSeverity:   entry.Trace,
		},
		Sink: SinkConfig{
			Type: SinkTypeMemory,
		},
	}
}

// Load parses a YAML document into a Config, filling omitted fields
// from the defaults, and validates it.
func Load(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(err, "Config", "Load", "parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapTransient(err, "Config", "LoadFile", "read file")
	}
	return Load(data)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Session.QueueCapacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"queue_capacity must be positive")
	}

	switch c.Sink.Type {
	case SinkTypeMemory:
	case SinkTypeFile:
		if c.Sink.Path == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				"file sink requires a path")
		}
	case SinkTypeNATS:
		if c.Sink.URL == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				"nats sink requires a url")
		}
		if c.Sink.Subject == "" {
			return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
				"nats sink requires a subject")
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"sink type must be one of: file, memory, nats")
	}

	return nil
}
