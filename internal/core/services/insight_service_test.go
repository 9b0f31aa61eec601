package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "eli")
	for i := 0; i < 12; i++ {
		testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.8)
	}
	h.gateway.Set(scoring.KindCompletionPrediction, 0.66)

	out, err := h.insight.Predict(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InsightPrediction, out.Type)
	assert.Equal(t, 0.66, out.Score)

	var sent []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(h.gateway.LastPayload()), &sent))
	assert.Len(t, sent, 10)

	stored, err := h.insight.List(ctx, user.ID, domain.InsightPrediction, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 0.66, stored[0].Confidence)
	assert.Equal(t, out.InsightID, stored[0].ID)
}

func TestAnomalies_ChronologicalTimeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "fara")
	testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.1)
	testutil.CreateTask(t, h.db, user.ID, domain.VerificationVerified, 0.9)

	_, err := h.insight.Anomalies(ctx, user.ID)
	require.NoError(t, err)

	var sent []struct {
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.gateway.LastPayload()), &sent))
	require.Len(t, sent, 2)
	assert.Equal(t, 0.1, sent[0].Score, "oldest first")
	assert.Equal(t, 0.9, sent[1].Score)
}

func TestSentiment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "gus")

	out, err := h.insight.Sentiment(ctx, user.ID, &SentimentInput{Messages: []ChatMessage{
		{Content: "Deadlines are tight this sprint"},
		{Sender: "lead", Content: "Thanks for pushing through"},
	}})
	require.NoError(t, err)
	assert.Equal(t, domain.InsightSentiment, out.Type)
	assert.Contains(t, h.gateway.LastPayload(), `"sender":"user"`)

	_, err = h.insight.Sentiment(ctx, user.ID, &SentimentInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.insight.Sentiment(ctx, 999, &SentimentInput{Messages: []ChatMessage{{Content: "hi"}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsight_GatewayFailureStoresNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "hana")
	h.gateway.Fail(fmt.Errorf("bad json: %w", domain.ErrScoringUnavailable))

	_, err := h.insight.Predict(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrScoringUnavailable)

	stored, err := h.insight.List(ctx, user.ID, "", 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
