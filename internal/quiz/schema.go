package quiz

import (
	"errors"

	"github.com/abhisek/quizgen/internal/llm"
)

var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question":       map[string]any{"type": "string", "minLength": 1},
		"option_a":       map[string]any{"type": "string", "minLength": 1},
		"option_b":       map[string]any{"type": "string", "minLength": 1},
		"option_c":       map[string]any{"type": "string", "minLength": 1},
		"option_d":       map[string]any{"type": "string", "minLength": 1},
		"correct_answer": map[string]any{"type": "string", "enum": []string{"a", "b", "c", "d"}},
		"explanation":    map[string]any{"type": "string", "minLength": 1},
	},
	"required": []string{"question", "option_a", "option_b", "option_c", "option_d", "correct_answer", "explanation"},
}

// QuizOutputSchema describes the generation response document.
var QuizOutputSchema = &llm.Schema{
	Name:        "quiz-output",
	Description: "A set of multiple-choice quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    questionSchema,
			},
		},
		"required": []string{"questions"},
	},
}

// VerdictSchema describes the validator's final answer.
var VerdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Whether a quiz answer is supported by web sources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct":  map[string]any{"type": []string{"boolean", "null"}},
			"explanation": map[string]any{"type": "string"},
			"sources": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"explanation"},
	},
}

// ValidateSchema checks raw against schema, reporting a failure as a
// *SchemaViolationError.
func ValidateSchema(schema *llm.Schema, raw []byte) error {
	err := llm.ValidateJSON(schema, raw)
	if err == nil {
		return nil
	}
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) && inv.Err != nil {
		return &SchemaViolationError{Reason: inv.Err.Error()}
	}
	return &SchemaViolationError{Reason: err.Error()}
}
