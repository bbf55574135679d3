// Package metrics holds the prometheus collectors for the interview pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider, operation and outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "operation"},
	)
	AIFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Total number of fixed fallback values returned by pipeline operations",
		},
		[]string{"operation"},
	)
	ResumeChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_chunks_total",
			Help: "Resume chunks analyzed, by outcome",
		},
		[]string{"outcome"},
	)
	SessionsSavedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_saved_total",
			Help: "Total number of interview sessions persisted",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AIRequestsTotal,
			AIRequestDuration,
			AIFallbacksTotal,
			ResumeChunksTotal,
			SessionsSavedTotal,
		)
	})
}

// Fallback records that an operation returned its fixed fallback value.
func Fallback(operation string) {
	AIFallbacksTotal.WithLabelValues(operation).Inc()
}
