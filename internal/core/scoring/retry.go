package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workpay-backend/internal/core/domain"

	"github.com/cenkalti/backoff/v4"
)

// Retrying retries ScoringUnavailable failures of the wrapped gateway with
// exponential backoff. Any other error is returned at once.
type Retrying struct {
	next        Gateway
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetrying wraps next; maxAttempts < 1 means a single attempt
func NewRetrying(next Gateway, maxAttempts int, baseDelay time.Duration) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 250 * time.Millisecond
	}
	return &Retrying{next: next, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

// Score implements Gateway
func (r *Retrying) Score(ctx context.Context, kind Kind, payload string) (*Result, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.baseDelay
	eb.MaxInterval = 8 * r.baseDelay
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.maxAttempts-1)), ctx)

	var res *Result
	op := func() error {
		out, err := r.next.Score(ctx, kind, payload)
		if err != nil {
			if !errors.Is(err, domain.ErrScoringUnavailable) {
				return backoff.Permanent(err)
			}
			return err
		}
		res = out
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		if ctx.Err() != nil && !errors.Is(err, domain.ErrScoringUnavailable) {
			return nil, fmt.Errorf("%w: %w", domain.ErrScoringUnavailable, err)
		}
		return nil, err
	}
	return res, nil
}
