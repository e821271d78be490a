// Package metrics exposes Prometheus instrumentation for the generation
// workflow. All methods are nil-receiver safe so wiring metrics stays
// optional in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels recorded on the generations counter.
const (
	ResultSuccess          = "success"
	ResultValidation       = "validation_rejected"
	ResultQuotaExceeded    = "quota_rejected"
	ResultTimeout          = "timeout"
	ResultProviderError    = "provider_error"
	ResultPersistenceError = "persistence_error"
	ResultBusy             = "busy"
)

// GenerationMetrics tracks podcast generation outcomes.
type GenerationMetrics struct {
	generationsTotal     *prometheus.CounterVec
	generationDuration   prometheus.Histogram
	synthesisInFlight    prometheus.Gauge
	translationFallbacks prometheus.Counter
}

// NewGenerationMetrics registers the generation metrics on reg.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	factory := promauto.With(reg)
	return &GenerationMetrics{
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "podcast_generations_total",
				Help: "Total number of podcast generation requests by result",
			},
			[]string{"result"},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "podcast_generation_duration_seconds",
				Help:    "End-to-end duration of successful generations",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
			},
		),
		synthesisInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "podcast_synthesis_in_flight",
				Help: "Number of synthesis calls currently holding a gate slot",
			},
		),
		translationFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "podcast_translation_fallbacks_total",
				Help: "Generations that continued with the original text after a translation failure",
			},
		),
	}
}

// ObserveResult records a finished generation.
func (m *GenerationMetrics) ObserveResult(result string, seconds float64) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.generationDuration.Observe(seconds)
	}
}

// SynthesisStarted marks a synthesis call entering the gate.
func (m *GenerationMetrics) SynthesisStarted() {
	if m == nil {
		return
	}
	m.synthesisInFlight.Inc()
}

// SynthesisFinished marks a synthesis call leaving the gate.
func (m *GenerationMetrics) SynthesisFinished() {
	if m == nil {
		return
	}
	m.synthesisInFlight.Dec()
}

// TranslationFallback records a non-fatal translation failure.
func (m *GenerationMetrics) TranslationFallback() {
	if m == nil {
		return
	}
	m.translationFallbacks.Inc()
}
