// Package metrics exposes Prometheus collectors for the conversion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors recorded by the conversion orchestrator.
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	WarningsTotal      *prometheus.CounterVec
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conversor_conversions_total",
			Help: "Conversion requests by bank and outcome.",
		}, []string{"bank", "outcome"}),
		ConversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conversor_conversion_duration_seconds",
			Help:    "Wall time of a full conversion, by bank.",
			Buckets: prometheus.DefBuckets,
		}, []string{"bank"}),
		WarningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conversor_warnings_total",
			Help: "Non-fatal findings accumulated during conversions, by bank.",
		}, []string{"bank"}),
	}

	if reg != nil {
		reg.MustRegister(m.ConversionsTotal, m.ConversionDuration, m.WarningsTotal)
	}
	return m
}

// NewNop returns collectors that are not registered anywhere. Useful in tests.
func NewNop() *Metrics {
	return New(nil)
}
