// Package metrics exposes Prometheus instrumentation for predictions and advice.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/coursecast/internal/inference"
)

// Error kinds recorded on coursecast_prediction_errors_total.
const (
	KindInvalidInput      = "invalid_input"
	KindSchemaMismatch    = "schema_mismatch"
	KindUnknownCategory   = "unknown_category"
	KindDimensionMismatch = "dimension_mismatch"
	KindInternal          = "internal"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
	advice      *prometheus.CounterVec
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecast_predictions_total",
			Help: "Predictions served, by outcome",
		}, []string{"outcome"}),

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecast_prediction_errors_total",
			Help: "Rejected or failed predictions, by error kind",
		}, []string{"kind"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coursecast_prediction_duration_seconds",
			Help:    "Latency of feature enrichment and scoring",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		advice: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursecast_advice_total",
			Help: "Advice generated, by source",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		m.predictions,
		m.errors,
		m.duration,
		m.advice,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction records a successful prediction and its latency.
func (m *Metrics) ObservePrediction(p inference.Prediction, elapsed time.Duration) {
	outcome := "low"
	if p.Positive() {
		outcome = "high"
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveError records a failed prediction.
func (m *Metrics) ObserveError(err error) {
	m.errors.WithLabelValues(ErrorKind(err)).Inc()
}

// ObserveAdvice records the source of generated advice.
func (m *Metrics) ObserveAdvice(source string) {
	m.advice.WithLabelValues(source).Inc()
}

// ErrorKind classifies err into one of the Kind labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, inference.ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, inference.ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, inference.ErrUnknownCategory):
		return KindUnknownCategory
	case errors.Is(err, inference.ErrDimensionMismatch):
		return KindDimensionMismatch
	default:
		return KindInternal
	}
}
