// Package metrics collects Prometheus metrics for the generation boundary.
// Zero items returned by the model and an unparseable response both surface
// to callers as the same empty document, so the distinction is kept alive
// here instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records generation-call outcomes.
type Collector struct {
	generationCalls *prometheus.CounterVec
	parseFailures   *prometheus.CounterVec
	emptyResults    *prometheus.CounterVec
	latency         prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genexis_generation_calls_total",
			Help: "Generation API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genexis_generation_parse_failures_total",
			Help: "Structured generation responses that failed to parse",
		}, []string{"operation"}),
		emptyResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genexis_generation_empty_results_total",
			Help: "Structured generation responses that parsed to zero items",
		}, []string{"operation"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "genexis_generation_latency_seconds",
			Help:    "Generation API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.generationCalls,
		c.parseFailures,
		c.emptyResults,
		c.latency,
	)

	return c
}

// RecordCall records the outcome of one generation call.
func (c *Collector) RecordCall(operation, outcome string) {
	c.generationCalls.WithLabelValues(operation, outcome).Inc()
}

// RecordParseFailure records a malformed structured response.
func (c *Collector) RecordParseFailure(operation string) {
	c.parseFailures.WithLabelValues(operation).Inc()
}

// RecordEmptyResult records a well-formed response with no items.
func (c *Collector) RecordEmptyResult(operation string) {
	c.emptyResults.WithLabelValues(operation).Inc()
}

// RecordLatency records the wall-clock duration of a call in seconds.
func (c *Collector) RecordLatency(seconds float64) {
	c.latency.Observe(seconds)
}
