package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsMetrics(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "ivo")
	paid := testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.8)
	testutil.CreateTask(t, h.db, user.ID, domain.VerificationReviewNeeded, 0.4)
	_, err := h.payment.Settle(ctx, &SettleInput{TaskID: paid.ID})
	require.NoError(t, err)

	m, err := h.analytics.Metrics(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.TotalTasks)
	assert.EqualValues(t, 1, m.VerifiedTasks)
	assert.EqualValues(t, 1, m.PaidTasks)
	assert.Equal(t, 50.0, m.TotalEarnings, "only completed payments count")
	assert.Equal(t, 50.0, m.CompletionRate)
	assert.InDelta(t, 0.6, m.AverageTaskScore, 1e-9)

	_, err = h.analytics.Metrics(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateAndGetReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.analytics.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	user := testutil.CreateUser(t, h.db, "jade")
	testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.8)

	report, err := h.analytics.GenerateReport(ctx, &GenerateReportInput{UserID: user.ID, ReportType: "performance"})
	require.NoError(t, err)
	assert.Equal(t, "Performance Report - 2026-03-14", report.Title)

	got, err := h.analytics.GetReport(ctx, report.ID)
	require.NoError(t, err)
	var data ReportData
	require.NoError(t, json.Unmarshal(got.Data, &data))
	assert.EqualValues(t, 1, data.TotalTasks)
	assert.Zero(t, data.TotalEarnings)

	_, err = h.analytics.GenerateReport(ctx, &GenerateReportInput{UserID: user.ID, ReportType: "weekly"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.analytics.GetReport(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestROI(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "kai")
	for i := 0; i < 3; i++ {
		task := testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.8)
		_, err := h.payment.Settle(ctx, &SettleInput{TaskID: task.ID})
		require.NoError(t, err)
	}

	out, err := h.analytics.ROI(ctx, &ROIInput{UserID: user.ID, InitialInvestment: 100})
	require.NoError(t, err)
	assert.Equal(t, 150.0, out.TotalEarnings)
	assert.Equal(t, 50.0, out.Profit)
	assert.Equal(t, 50.0, out.ROIPercentage)
	assert.Equal(t, 150.0, out.ProjectedMonthly)

	_, err = h.analytics.ROI(ctx, &ROIInput{UserID: user.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
