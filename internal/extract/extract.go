// Package extract recovers a structured object from free-form model output.
//
// Model responses wrap their JSON in prose, markdown fences or ReAct traces.
// Extraction runs an ordered list of strategies; each proposes candidate
// substrings and the first candidate that decodes wins.
package extract

import (
	"fmt"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Strategy proposes candidate JSON substrings of a response, best first.
// Candidates must be a pure function of text.
type Strategy struct {
	Name       string
	Candidates func(text string) []string
}

// Extract tries every candidate of every strategy in order and returns the
// first value decode accepts. When nothing decodes it returns a
// *quiz.ExtractionError holding the raw text and each candidate's error.
// With no strategies the Default chain is used.
func Extract[T any](text string, decode func([]byte) (T, error), strategies ...Strategy) (T, error) {
	if len(strategies) == 0 {
		strategies = Default()
	}

	var attempts []error
	seen := make(map[string]bool)
	for _, s := range strategies {
		for _, c := range s.Candidates(text) {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true

			v, err := decode([]byte(c))
			if err == nil {
				return v, nil
			}
			attempts = append(attempts, &AttemptError{Strategy: s.Name, Err: err})
		}
	}

	var zero T
	return zero, &quiz.ExtractionError{Raw: text, Attempts: attempts}
}

// AttemptError records why one candidate was rejected.
type AttemptError struct {
	Strategy string
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// QuizOutput extracts a generation response with the Default chain.
func QuizOutput(text string) (*quiz.QuizOutput, error) {
	return Extract(text, quiz.DecodeQuizOutput, Default()...)
}

// Verdict extracts a validator answer with the VerdictChain.
func Verdict(text string) (quiz.ValidationResult, error) {
	return Extract(text, quiz.DecodeVerdict, VerdictChain()...)
}
