// Package validation checks quiz answers against web search results using a
// search-augmented reasoning agent.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/extract"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/metrics"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Agent runs a reasoning loop to completion and returns its final text.
type Agent interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// Explanation used when the agent answered but no verdict could be parsed.
const parseFailedExplanation = "Could not determine if the answer is correct. The validation system failed to parse the results."

const instructions = `You are a validation agent for educational quiz questions. Your task is to validate whether the provided correct answer to a quiz question is factually accurate.

To validate the answer:
1. Generate search queries targeting academic information about the topic.
2. Use the search tool to find relevant information.
3. Analyze the search results to determine if the correct answer is supported by factual information.
4. Focus only on determining if the provided correct answer is actually correct.
5. If the information is inconclusive or contradictory, indicate that in the result.

Once you have gathered enough information, provide your final answer in the following JSON format:
{
    "is_correct": true/false/null,
    "explanation": "A brief explanation of your findings about the correctness of the answer",
    "sources": ["list", "of", "source", "URLs"]
}
- Set "is_correct" to true if the answer is verified correct, false if it's wrong, or null if inconclusive.
- Include at least one source if possible.
- "sources" must contain only URLs taken from the search results.`

// Validator checks a single question's answer. Validate never fails: every
// error becomes an inconclusive verdict.
type Validator struct {
	agent  Agent
	logger *zap.Logger
}

// NewValidator creates a Validator backed by agent.
func NewValidator(agent Agent, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{agent: agent, logger: logger}
}

// BuildPrompt returns the agent prompt for one claim.
func BuildPrompt(questionText, correctAnswer, explanation string) string {
	claim := fmt.Sprintf("Question: '%s'\nCorrect answer: '%s'\nExplanation: %s", questionText, correctAnswer, explanation)
	return instructions + "\n\nAnswer to validate: " + claim
}

// Validate asks the agent whether correctAnswer answers questionText.
func (v *Validator) Validate(ctx context.Context, questionText, correctAnswer, explanation string) (result quiz.ValidationResult) {
	ctx = llm.WithPurpose(ctx, llm.PurposeAnswerCheck)
	log := v.logger.With(zap.String("question", llm.Preview(questionText, 100)))
	if id := llm.RequestIDFrom(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("answer validation panicked", zap.Any("panic", r))
			result = quiz.Inconclusive(fmt.Sprintf("Could not validate the answer: %v", r))
		}
		metrics.Verdicts.WithLabelValues(result.Verdict()).Inc()
	}()

	raw, err := v.agent.Run(ctx, BuildPrompt(questionText, correctAnswer, explanation))
	if err != nil {
		err = &quiz.UpstreamError{Op: "validation agent", Err: err}
		log.Warn("validation agent failed", zap.Error(err))
		return quiz.Inconclusive(fmt.Sprintf("Could not validate the answer: %v", err))
	}
	log.Debug("validation agent result", zap.String("raw", llm.Preview(raw, 200)))

	result, err = extract.Verdict(raw)
	if err != nil {
		if isParseFailure(err) {
			log.Warn("could not parse validation result", zap.Error(err))
			return quiz.Inconclusive(parseFailedExplanation)
		}
		log.Warn("invalid validation result", zap.Error(err))
		return quiz.Inconclusive(fmt.Sprintf("Could not validate the answer: %v", err))
	}
	return result
}

// isParseFailure reports whether err only ever failed on JSON syntax, as
// opposed to a well-formed object of the wrong shape or no object at all.
func isParseFailure(err error) bool {
	if isDecodeError(err) {
		return true
	}
	var ee *quiz.ExtractionError
	if !errors.As(err, &ee) || len(ee.Attempts) == 0 {
		return false
	}
	for _, a := range ee.Attempts {
		if !isDecodeError(a) {
			return false
		}
	}
	return true
}

func isDecodeError(err error) bool {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syn) || errors.As(err, &typ)
}
