package scoring

import "fmt"

type prompt struct {
	template    string
	temperature float64
	field       string
}

var prompts = map[Kind]prompt{
	KindTaskAuthenticity: {
		template: `Analyze this task for authenticity. Return JSON with:
- authenticity_score (0-1)
- red_flags: []
- recommendation: 'approve' or 'review'

Task: %s

Respond ONLY with JSON.`,
		temperature: 0.1,
		field:       "authenticity_score",
	},
	KindFraudRisk: {
		template: `Analyze for fraud patterns. Return JSON with:
- fraud_risk (0-1)
- red_flags: []
- anomalies: []

Payments: %s

Respond ONLY with JSON.`,
		temperature: 0.1,
		field:       "fraud_risk",
	},
	KindSentiment: {
		template: `Analyze sentiment and team morale. Return JSON with:
- overall_sentiment: 'positive' | 'neutral' | 'negative'
- morale_score: float (0-1)
- key_concerns: list of str
- suggestions: list of str

Chat history: %s

Respond ONLY with JSON.`,
		temperature: 0.5,
		field:       "morale_score",
	},
	KindCompletionPrediction: {
		template: `Analyze task completion trends. Return JSON with:
- completion_rate: float (0-1)
- predicted_revenue: float
- trend: 'improving' | 'stable' | 'declining'
- forecast_next_7days: list of predicted daily completions

Task history: %s

Respond ONLY with JSON.`,
		temperature: 0.5,
		field:       "completion_rate",
	},
	KindAnomaly: {
		template: `Detect anomalies in this work pattern. Return JSON with:
- anomalies: list of {"type": str, "severity": 0-1}
- normal_pattern: description
- unusual_activity: bool
- recommendations: list of str

Timeline: %s

Respond ONLY with JSON.`,
		temperature: 0.5,
		field:       "anomalies",
	},
}

func promptFor(kind Kind) (prompt, error) {
	p, ok := prompts[kind]
	if !ok {
		return prompt{}, fmt.Errorf("unknown scoring kind %q", kind)
	}
	return p, nil
}

// Render builds the user message for kind
func Render(kind Kind, payload string) (string, error) {
	p, err := promptFor(kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(p.template, payload), nil
}

// PrimaryField names the reply field a kind is scored on
func PrimaryField(kind Kind) string {
	return prompts[kind].field
}
