package eval

import (
	"encoding/json"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Answer is one persona's answer to a questionnaire item.
type Answer struct {
	QuestionID string `json:"questionId"`
	Response   any    `json:"response"`
	Reasoning  string `json:"reasoning,omitempty"`
}

// PersonaResponse collects a persona's answers.
type PersonaResponse struct {
	PersonaID string   `json:"personaId"`
	Answers   []Answer `json:"answers"`
}

// ResponseStats summarizes numeric answers to one question.
type ResponseStats struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // population variance
	Spread   float64 `json:"spread"`   // max - min
}

// AnalyzeResponses computes per-question statistics over numeric answers.
// Questions with no numeric answers are omitted.
func AnalyzeResponses(responses []PersonaResponse, questionIDs []string) map[string]ResponseStats {
	out := make(map[string]ResponseStats, len(questionIDs))
	for _, qid := range questionIDs {
		var values []float64
		for _, r := range responses {
			for _, a := range r.Answers {
				if a.QuestionID != qid {
					continue
				}
				if v, ok := numeric(a.Response); ok {
					values = append(values, v)
				}
				break
			}
		}
		if len(values) == 0 {
			continue
		}
		mean, variance := stat.PopMeanVariance(values, nil)
		out[qid] = ResponseStats{
			Mean:     mean,
			Variance: variance,
			Spread:   floats.Max(values) - floats.Min(values),
		}
	}
	return out
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
