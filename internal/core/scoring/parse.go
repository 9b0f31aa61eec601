package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"workpay-backend/internal/core/domain"
)

// Parse validates a raw model reply for kind and extracts its primary score.
// Markdown code fences around the JSON object are tolerated.
func Parse(kind Kind, reply string) (*Result, error) {
	p, err := promptFor(kind)
	if err != nil {
		return nil, err
	}

	body := extractJSON(reply)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: malformed %s reply: %v", domain.ErrScoringUnavailable, kind, err)
	}

	raw, ok := fields[p.field]
	if !ok {
		return nil, fmt.Errorf("%w: %s reply missing %s", domain.ErrScoringUnavailable, kind, p.field)
	}

	var score float64
	if kind == KindAnomaly {
		score, err = maxSeverity(raw)
	} else {
		err = json.Unmarshal(raw, &score)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s field %s: %v", domain.ErrScoringUnavailable, kind, p.field, err)
	}
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("%w: %s score %v outside [0,1]", domain.ErrScoringUnavailable, kind, score)
	}

	return &Result{Score: score, Detail: json.RawMessage(body)}, nil
}

// maxSeverity scores an anomaly list by its worst entry; an empty list is 0
func maxSeverity(raw json.RawMessage) (float64, error) {
	var anomalies []struct {
		Type     string   `json:"type"`
		Severity *float64 `json:"severity"`
	}
	if err := json.Unmarshal(raw, &anomalies); err != nil {
		return 0, err
	}

	max := 0.0
	for i, a := range anomalies {
		if a.Severity == nil {
			return 0, fmt.Errorf("anomaly %d has no severity", i)
		}
		if *a.Severity < 0 || *a.Severity > 1 {
			return 0, fmt.Errorf("anomaly %d severity %v outside [0,1]", i, *a.Severity)
		}
		if *a.Severity > max {
			max = *a.Severity
		}
	}
	return max, nil
}

func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
