// Package scoring delegates the hard judgement calls (authenticity, fraud
// risk, sentiment, completion prediction, anomaly detection) to an external
// model and hands back a single normalised score per call.
package scoring

import (
	"context"
	"encoding/json"
)

// Kind selects the prompt and the primary score field of a call
type Kind string

const (
	KindTaskAuthenticity     Kind = "task-authenticity"
	KindFraudRisk            Kind = "fraud-risk"
	KindSentiment            Kind = "sentiment"
	KindCompletionPrediction Kind = "completion-prediction"
	KindAnomaly              Kind = "anomaly"
)

// Kinds lists every supported kind
var Kinds = []Kind{
	KindTaskAuthenticity,
	KindFraudRisk,
	KindSentiment,
	KindCompletionPrediction,
	KindAnomaly,
}

// Result is a validated scoring reply.
// Score is always within [0,1]; Detail is the reply object as returned.
type Result struct {
	Score  float64         `json:"score"`
	Detail json.RawMessage `json:"detail"`
}

// Gateway scores a payload for a kind.
// Every failure wraps domain.ErrScoringUnavailable; no default score is ever
// substituted for a missing or malformed reply.
type Gateway interface {
	Score(ctx context.Context, kind Kind, payload string) (*Result, error)
}
