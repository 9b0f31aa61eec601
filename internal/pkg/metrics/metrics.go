// Package metrics provides Prometheus instrumentation for the WorkPay backend.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workpay"

var (
	// ScoringCallsTotal counts gateway calls by kind and outcome.
	ScoringCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_calls_total",
			Help:      "Total scoring gateway calls by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// ScoringDuration observes gateway latency by kind.
	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Scoring gateway call duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// TaskVerificationsTotal counts applied verifications by resulting status.
	TaskVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_verifications_total",
			Help:      "Total task verifications by resulting status.",
		},
		[]string{"status"},
	)

	// PaymentTransitionsTotal counts payment state changes by target status.
	PaymentTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Total payment transitions by target status.",
		},
		[]string{"status"},
	)

	// BadgesAwardedTotal counts achievement grants by badge.
	BadgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badges_awarded_total",
			Help:      "Total badges awarded by badge name.",
		},
		[]string{"badge"},
	)

	// FraudScansTotal counts fraud scans, split by whether the gateway was called.
	FraudScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fraud_scans_total",
			Help:      "Total fraud scans by mode (scored, empty).",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(
		ScoringCallsTotal,
		ScoringDuration,
		TaskVerificationsTotal,
		PaymentTransitionsTotal,
		BadgesAwardedTotal,
		FraudScansTotal,
	)
}

// Handler returns the Prometheus metrics handler for the /metrics endpoint.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
