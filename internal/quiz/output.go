package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuizOutput is the parse target of a generation response.
type QuizOutput struct {
	Questions []Question `json:"questions"`
}

// DecodeQuizOutput parses a {"questions": [...]} document, or a bare array
// of question objects, and builds every question through NewQuestion.
// JSON syntax errors are returned as is; every other failure is a
// *SchemaViolationError.
func DecodeQuizOutput(raw []byte) (*QuizOutput, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	if _, isArray := doc.([]any); isArray {
		wrapped, err := json.Marshal(map[string]any{"questions": doc})
		if err != nil {
			return nil, err
		}
		raw = wrapped
	} else if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, &SchemaViolationError{Reason: "expected a JSON object or array"}
	}

	if err := ValidateSchema(QuizOutputSchema, raw); err != nil {
		return nil, err
	}

	var out struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &SchemaViolationError{Field: "questions", Reason: err.Error()}
	}
	if len(out.Questions) == 0 {
		return nil, &SchemaViolationError{Field: "questions", Reason: "must contain at least one question"}
	}

	qs := make([]Question, 0, len(out.Questions))
	for i, r := range out.Questions {
		q, err := NewQuestion(r.Question, r.OptionA, r.OptionB, r.OptionC, r.OptionD, r.CorrectAnswer, r.Explanation)
		if err != nil {
			if sv, ok := err.(*SchemaViolationError); ok {
				sv.Field = fmt.Sprintf("questions[%d].%s", i, sv.Field)
			}
			return nil, err
		}
		qs = append(qs, *q)
	}
	return &QuizOutput{Questions: qs}, nil
}
