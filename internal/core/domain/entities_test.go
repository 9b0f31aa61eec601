package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationFromScore(t *testing.T) {
	assert.Equal(t, VerificationVerified, VerificationFromScore(0.85))
	assert.Equal(t, VerificationReviewNeeded, VerificationFromScore(0.7))
	assert.Equal(t, VerificationReviewNeeded, VerificationFromScore(0))
	assert.Equal(t, VerificationVerified, VerificationFromScore(1))
}

func TestVerificationTransitions(t *testing.T) {
	cases := []struct {
		from, to VerificationStatus
		ok       bool
	}{
		{VerificationPending, VerificationVerified, true},
		{VerificationPending, VerificationReviewNeeded, true},
		{VerificationPending, VerificationRejected, false},
		{VerificationVerified, VerificationReviewNeeded, true},
		{VerificationReviewNeeded, VerificationRejected, true},
		{VerificationVerified, VerificationRejected, false},
		{VerificationRejected, VerificationVerified, false},
		{VerificationRejected, VerificationPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransitionTo(PaymentCompleted))
	assert.True(t, PaymentPending.CanTransitionTo(PaymentFailed))
	assert.True(t, PaymentCompleted.CanTransitionTo(PaymentRefunded))

	for _, s := range []PaymentStatus{PaymentCompleted, PaymentFailed, PaymentRefunded} {
		assert.False(t, s.CanTransitionTo(PaymentPending), "%s must not re-enter pending", s)
		assert.False(t, s.CanTransitionTo(PaymentCompleted), "%s must not be re-settled", s)
	}
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrTaskNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrPaymentNotPending, ErrInvalidState))
	assert.True(t, errors.Is(Validationf("amount %v", -1), ErrValidation))
	assert.Equal(t, "task not found", ErrTaskNotFound.Error())
	assert.True(t, IsRetryable(ErrScoringUnavailable))
	assert.False(t, IsRetryable(ErrTaskNotFound))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidRole("manager"))
	assert.False(t, ValidRole("MANAGER"))
	assert.True(t, ValidPaymentMethod("bKash"))
	assert.False(t, ValidPaymentMethod("paypal"))
	assert.True(t, ValidReportType("roi"))
	assert.False(t, ValidReportType("weekly"))
}
