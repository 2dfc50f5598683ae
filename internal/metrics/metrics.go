package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method and route pattern
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museumtrail_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "route"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "museumtrail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "route"},
	)

	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "museumtrail_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	// GeneratorDuration measures calls to the AI provider
	GeneratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "museumtrail_generator_duration_seconds",
			Help:    "AI generator call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "operation", "outcome"},
	)

	// QuizzesGenerated counts stored quizzes by source ("generator" or "fallback")
	QuizzesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museumtrail_quizzes_generated_total",
			Help: "Total number of quizzes handed out",
		},
		[]string{"source"},
	)

	// QuizzesScored counts scoring attempts by result ("scored" or "mismatch")
	QuizzesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museumtrail_quizzes_scored_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"result"},
	)
)

// RecordGeneratorCall records the duration of an AI provider call.
func RecordGeneratorCall(provider, operation string, err error, startTime time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GeneratorDuration.WithLabelValues(provider, operation, outcome).Observe(time.Since(startTime).Seconds())
}
