// Package prometheus instruments bulk descriptor evaluation.  The Collector
// owns a private registry so multiple engine instances in one process cannot
// collide, and exposes an HTTP handler for scraping.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's evaluation metrics.
type Collector struct {
	registry *prometheus.Registry

	structuresTotal   prometheus.Counter
	resultsTotal      *prometheus.CounterVec
	structureDuration prometheus.Histogram
	runsTotal         prometheus.Counter
}

// NewCollector builds a Collector with all metrics registered under the
// given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		structuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_evaluated_total",
			Help:      "Number of structures fully evaluated, including those with per-descriptor failures.",
		}),
		resultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptor_results_total",
			Help:      "Descriptor results by outcome kind.",
		}, []string{"kind"}),
		structureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "structure_evaluation_seconds",
			Help:      "Wall time to evaluate all descriptors for one structure.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_runs_total",
			Help:      "Number of bulk evaluation runs started.",
		}),
	}

	registry.MustRegister(c.structuresTotal, c.resultsTotal, c.structureDuration, c.runsTotal)
	return c
}

// ObserveStructure records the completion of one structure's evaluation.
func (c *Collector) ObserveStructure(elapsed time.Duration) {
	c.structuresTotal.Inc()
	c.structureDuration.Observe(elapsed.Seconds())
}

// CountResult records one descriptor result by outcome kind
// ("value", "missing", or "error").
func (c *Collector) CountResult(kind string) {
	c.resultsTotal.WithLabelValues(kind).Inc()
}

// CountRun records the start of a bulk evaluation run.
func (c *Collector) CountRun() {
	c.runsTotal.Inc()
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the private registry for embedding into a larger metrics
// surface.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
