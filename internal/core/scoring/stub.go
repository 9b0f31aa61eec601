package scoring

import (
	"context"
	"encoding/json"
	"sync"
)

// Call records one Stub invocation
type Call struct {
	Kind    Kind
	Payload string
}

// Stub is a deterministic Gateway for local runs and tests.
// Scores are fixed per kind; a configured error fails every call.
type Stub struct {
	mu     sync.Mutex
	scores map[Kind]float64
	err    error
	calls  []Call
}

// NewStub creates a stub with neutral defaults per kind
func NewStub() *Stub {
	return &Stub{
		scores: map[Kind]float64{
			KindTaskAuthenticity:     0.85,
			KindFraudRisk:            0.1,
			KindSentiment:            0.6,
			KindCompletionPrediction: 0.75,
			KindAnomaly:              0,
		},
	}
}

// Set fixes the score returned for kind
func (s *Stub) Set(kind Kind, score float64) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[kind] = score
	return s
}

// Fail makes every subsequent call return err; nil restores scoring
func (s *Stub) Fail(err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Calls returns the number of calls made for kind
func (s *Stub) Calls(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// LastPayload returns the payload of the latest call, or ""
func (s *Stub) LastPayload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return s.calls[len(s.calls)-1].Payload
}

// Score implements Gateway
func (s *Stub) Score(ctx context.Context, kind Kind, payload string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := promptFor(kind); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Kind: kind, Payload: payload})
	score, failErr := s.scores[kind], s.err
	s.mu.Unlock()

	if failErr != nil {
		return nil, failErr
	}

	detail, err := json.Marshal(stubDetail(kind, score))
	if err != nil {
		return nil, err
	}
	return &Result{Score: score, Detail: detail}, nil
}

func stubDetail(kind Kind, score float64) map[string]interface{} {
	switch kind {
	case KindTaskAuthenticity:
		rec := "review"
		if score > 0.7 {
			rec = "approve"
		}
		return map[string]interface{}{"authenticity_score": score, "red_flags": []string{}, "recommendation": rec}
	case KindFraudRisk:
		return map[string]interface{}{"fraud_risk": score, "red_flags": []string{}, "anomalies": []string{}}
	case KindSentiment:
		sentiment := "neutral"
		if score >= 0.66 {
			sentiment = "positive"
		} else if score < 0.33 {
			sentiment = "negative"
		}
		return map[string]interface{}{"overall_sentiment": sentiment, "morale_score": score, "key_concerns": []string{}, "suggestions": []string{}}
	case KindCompletionPrediction:
		return map[string]interface{}{"completion_rate": score, "trend": "stable", "forecast_next_7days": []int{}}
	default:
		anomalies := []map[string]interface{}{}
		if score > 0 {
			anomalies = append(anomalies, map[string]interface{}{"type": "stub", "severity": score})
		}
		return map[string]interface{}{"anomalies": anomalies, "unusual_activity": score > 0, "recommendations": []string{}}
	}
}
