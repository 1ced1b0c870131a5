package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds the Prometheus instruments for the plugin system. All
// record methods are nil-safe so callers can pass a nil Collector to run
// without metrics.
type Collector struct {
	// Registry metrics
	registrationsTotal *prometheus.CounterVec
	removalsTotal      *prometheus.CounterVec
	lookupsTotal       *prometheus.CounterVec
	instancesTotal     *prometheus.CounterVec

	// Bootstrap metrics
	pluginsTotal   *prometheus.CounterVec
	templatesTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a Collector with all instruments registered under
// the given namespace on the default Prometheus registerer.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_registrations_total",
			Help:      "Total number of definition registrations",
		},
		[]string{"category"},
	)

	c.removalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_removals_total",
			Help:      "Total number of definition removals",
		},
		[]string{"category"},
	)

	c.lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_lookups_total",
			Help:      "Total number of registry lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	c.instancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_tracked_instances_total",
			Help:      "Total number of tracked instance constructions",
		},
		[]string{"category"},
	)

	c.pluginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_plugins_total",
			Help:      "Total number of plugin bootstrap outcomes",
		},
		[]string{"outcome"}, // outcome: registered, import_failed, install_failed, skipped
	)

	c.templatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_templates_total",
			Help:      "Total number of template load outcomes",
		},
		[]string{"outcome"}, // outcome: loaded, failed
	)

	return c
}

// RecordRegistration counts one definition registration.
func (c *Collector) RecordRegistration(category string) {
	if c == nil {
		return
	}
	c.registrationsTotal.WithLabelValues(category).Inc()
}

// RecordRemoval counts one definition removal.
func (c *Collector) RecordRemoval(category string) {
	if c == nil {
		return
	}
	c.removalsTotal.WithLabelValues(category).Inc()
}

// RecordLookup counts one registry lookup by outcome.
func (c *Collector) RecordLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.lookupsTotal.WithLabelValues(result).Inc()
}

// RecordInstance counts one tracked instance construction.
func (c *Collector) RecordInstance(category string) {
	if c == nil {
		return
	}
	c.instancesTotal.WithLabelValues(category).Inc()
}

// RecordPlugin counts one plugin bootstrap outcome.
func (c *Collector) RecordPlugin(outcome string) {
	if c == nil {
		return
	}
	c.pluginsTotal.WithLabelValues(outcome).Inc()
}

// RecordTemplate counts one template load outcome.
func (c *Collector) RecordTemplate(ok bool) {
	if c == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "loaded"
	}
	c.templatesTotal.WithLabelValues(outcome).Inc()
}
