package scoring

import (
	"context"
	"errors"
	"time"

	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/metrics"
)

// Instrumented records call counts, latency and a debug line per call
type Instrumented struct {
	next Gateway
}

// NewInstrumented wraps next
func NewInstrumented(next Gateway) *Instrumented {
	return &Instrumented{next: next}
}

// Score implements Gateway
func (g *Instrumented) Score(ctx context.Context, kind Kind, payload string) (*Result, error) {
	start := time.Now()
	res, err := g.next.Score(ctx, kind, payload)
	elapsed := time.Since(start)

	metrics.ScoringDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrScoringUnavailable):
		outcome = "unavailable"
	default:
		outcome = "error"
	}
	metrics.ScoringCallsTotal.WithLabelValues(string(kind), outcome).Inc()

	log := logging.L(ctx)
	if err != nil {
		log.Warn("scoring call failed", "kind", kind, "duration_ms", elapsed.Milliseconds(), "error", err)
		return nil, err
	}
	log.Debug("scoring call", "kind", kind, "score", res.Score, "duration_ms", elapsed.Milliseconds())
	return res, nil
}
