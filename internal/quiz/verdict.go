package quiz

import (
	"encoding/json"
	"strings"
)

// ValidationResult is the verdict attached to a question after its answer
// was checked against web sources. A nil IsCorrect means the check could not
// reach a conclusion.
type ValidationResult struct {
	IsCorrect   *bool    `json:"is_correct"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// minSourceLen is the length a source must exceed to be kept.
const minSourceLen = 10

// NewValidationResult builds a verdict, keeping only sources that look like
// URLs: prefix "http" and longer than 10 characters. Order is preserved.
func NewValidationResult(isCorrect *bool, explanation string, sources []string) ValidationResult {
	kept := make([]string, 0, len(sources))
	for _, s := range sources {
		if strings.HasPrefix(s, "http") && len(s) > minSourceLen {
			kept = append(kept, s)
		}
	}
	return ValidationResult{
		IsCorrect:   isCorrect,
		Explanation: explanation,
		Sources:     kept,
	}
}

// Inconclusive returns an unknown verdict with no sources.
func Inconclusive(explanation string) ValidationResult {
	return ValidationResult{Explanation: explanation, Sources: []string{}}
}

// Verdict returns "true", "false" or "unknown".
func (v ValidationResult) Verdict() string {
	switch {
	case v.IsCorrect == nil:
		return "unknown"
	case *v.IsCorrect:
		return "true"
	default:
		return "false"
	}
}

// normalized guarantees sources serialize as [] rather than null.
func (v ValidationResult) normalized() ValidationResult {
	if v.Sources == nil {
		v.Sources = []string{}
	}
	return v
}

type rawVerdict struct {
	IsCorrect   *bool    `json:"is_correct"`
	Explanation *string  `json:"explanation"`
	Sources     []string `json:"sources"`
}

// DecodeVerdict parses a {is_correct, explanation, sources} object.
// Syntax errors are returned unwrapped so callers can tell a parse failure
// from a shape failure.
func DecodeVerdict(raw []byte) (ValidationResult, error) {
	var rv rawVerdict
	if err := json.Unmarshal(raw, &rv); err != nil {
		return ValidationResult{}, err
	}
	if err := ValidateSchema(VerdictSchema, raw); err != nil {
		return ValidationResult{}, err
	}
	if rv.Explanation == nil {
		return ValidationResult{}, &SchemaViolationError{Field: "explanation", Reason: "is required"}
	}
	return NewValidationResult(rv.IsCorrect, strings.TrimSpace(*rv.Explanation), rv.Sources), nil
}
