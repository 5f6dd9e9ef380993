package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Morgan-Stanley/binlog/errors"
)

// Registry owns a dedicated Prometheus registry holding the binlog
// metric set, keeping the library out of the global default registry.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a registry with the binlog metric set registered.
func NewRegistry() (*Registry, error) {
	prometheusRegistry := prometheus.NewRegistry()
	metrics := NewMetrics()

	for _, c := range metrics.collectors() {
		if err := prometheusRegistry.Register(c); err != nil {
			return nil, errors.WrapFatal(err, "Registry", "NewRegistry", "metric registration")
		}
	}

	return &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            metrics,
	}, nil
}

// PrometheusRegistry returns the underlying Prometheus registry,
// for exposure via promhttp or pushing.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}
