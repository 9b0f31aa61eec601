package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workpay-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var seen chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&seen)

		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestLLM(url string) *LLM {
	return NewLLM(LLMConfig{BaseURL: url, APIKey: "test-key", Model: "test-model", Timeout: 2 * time.Second})
}

func TestLLM_Score(t *testing.T) {
	srv, seen := chatServer(t, http.StatusOK, `{"authenticity_score": 0.91, "red_flags": [], "recommendation": "approve"}`)

	res, err := newTestLLM(srv.URL).Score(context.Background(), KindTaskAuthenticity, "Fixed the billing export")
	require.NoError(t, err)
	assert.Equal(t, 0.91, res.Score)

	assert.Equal(t, "test-model", seen.Model)
	assert.Equal(t, 0.1, seen.Temperature)
	require.Len(t, seen.Messages, 1)
	assert.Contains(t, seen.Messages[0].Content, "Fixed the billing export")
}

func TestLLM_Non200(t *testing.T) {
	srv, _ := chatServer(t, http.StatusTooManyRequests, "")

	_, err := newTestLLM(srv.URL).Score(context.Background(), KindFraudRisk, "[]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	assert.Contains(t, err.Error(), "429")
}

func TestLLM_MalformedReply(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, "Sure! The score is high.")

	_, err := newTestLLM(srv.URL).Score(context.Background(), KindTaskAuthenticity, "x")
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
}

func TestLLM_TransportError(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, "{}")
	url := srv.URL
	srv.Close()

	_, err := newTestLLM(url).Score(context.Background(), KindSentiment, "[]")
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
}

func TestLLM_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	_, err := newTestLLM(srv.URL).Score(context.Background(), KindAnomaly, "[]")
	assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
}
