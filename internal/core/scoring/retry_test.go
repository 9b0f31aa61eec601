package scoring

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"workpay-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky fails with ScoringUnavailable until it has been called failures times
type flaky struct {
	failures int
	calls    int
	err      error
}

func (f *flaky) Score(ctx context.Context, kind Kind, payload string) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= f.failures {
		return nil, fmt.Errorf("%w: attempt %d", domain.ErrScoringUnavailable, f.calls)
	}
	return &Result{Score: 0.5, Detail: []byte(`{}`)}, nil
}

func TestRetrying_RecoversWithinBudget(t *testing.T) {
	next := &flaky{failures: 2}
	res, err := NewRetrying(next, 3, time.Millisecond).Score(context.Background(), KindFraudRisk, "[]")
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, 3, next.calls)
}

func TestRetrying_GivesUp(t *testing.T) {
	next := &flaky{failures: 10}
	_, err := NewRetrying(next, 3, time.Millisecond).Score(context.Background(), KindFraudRisk, "[]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	assert.Equal(t, 3, next.calls)
}

func TestRetrying_PermanentErrorNotRetried(t *testing.T) {
	next := &flaky{err: errors.New("unknown scoring kind")}
	_, err := NewRetrying(next, 5, time.Millisecond).Score(context.Background(), KindFraudRisk, "[]")
	require.Error(t, err)
	assert.Equal(t, 1, next.calls)
	assert.False(t, errors.Is(err, domain.ErrScoringUnavailable))
}

func TestRetrying_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next := &flaky{failures: 10}
	_, err := NewRetrying(next, 5, 50*time.Millisecond).Score(ctx, KindFraudRisk, "[]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	assert.LessOrEqual(t, next.calls, 1)
}

func TestStub(t *testing.T) {
	stub := NewStub().Set(KindTaskAuthenticity, 0.3)

	res, err := stub.Score(context.Background(), KindTaskAuthenticity, "desc")
	require.NoError(t, err)
	assert.Equal(t, 0.3, res.Score)

	parsed, err := Parse(KindTaskAuthenticity, string(res.Detail))
	require.NoError(t, err)
	assert.Equal(t, 0.3, parsed.Score)

	stub.Fail(domain.ErrScoringUnavailable)
	_, err = stub.Score(context.Background(), KindTaskAuthenticity, "desc")
	assert.ErrorIs(t, err, domain.ErrScoringUnavailable)
	assert.Equal(t, 2, stub.Calls(KindTaskAuthenticity))
	assert.Equal(t, "desc", stub.LastPayload())
}

func TestStubDetailsParse(t *testing.T) {
	stub := NewStub().Set(KindAnomaly, 0.4)
	for _, kind := range Kinds {
		res, err := stub.Score(context.Background(), kind, "{}")
		require.NoError(t, err)
		parsed, err := Parse(kind, string(res.Detail))
		require.NoError(t, err, kind)
		assert.Equal(t, res.Score, parsed.Score, kind)
	}
}

func TestNew_StubChain(t *testing.T) {
	gw := New(Options{Provider: ProviderStub, MaxAttempts: 2})
	res, err := gw.Score(context.Background(), KindCompletionPrediction, "[]")
	require.NoError(t, err)
	assert.Equal(t, 0.75, res.Score)
}
