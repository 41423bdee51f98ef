package narrative

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records model calls made by a Service. A nil *Metrics records
// nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	retries      *prometheus.CounterVec
	cache        *prometheus.CounterVec
	promptLength *prometheus.HistogramVec
}

// NewMetrics registers the narrative collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ohip_narrative_requests_total",
			Help: "Narrative generations by report kind and outcome.",
		}, []string{"kind", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ohip_narrative_duration_seconds",
			Help:    "Wall time of a narrative generation, retry included.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"kind"}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ohip_narrative_retries_total",
			Help: "Generations retried after a failed first attempt.",
		}, []string{"kind"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ohip_narrative_cache_lookups_total",
			Help: "Analysis cache lookups by result (hit or miss).",
		}, []string{"kind", "result"}),
		promptLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ohip_narrative_prompt_length_chars",
			Help:    "Length of prompts sent to the model.",
			Buckets: []float64{250, 500, 1000, 2000, 4000, 8000},
		}, []string{"kind"}),
	}
}

func (m *Metrics) cacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) retry(kind string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(kind).Inc()
}

// generation records one call to the model: status is ok, error or empty.
func (m *Metrics) generation(kind, status string, promptLen int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, status).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.promptLength.WithLabelValues(kind).Observe(float64(promptLen))
}
