package validation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizgen/internal/quiz"
)

// AnswerValidator checks one answer. *Validator implements it.
type AnswerValidator interface {
	Validate(ctx context.Context, questionText, correctAnswer, explanation string) quiz.ValidationResult
}

// Orchestrator validates every question of a quiz concurrently.
type Orchestrator struct {
	validator   AnswerValidator
	concurrency int
	logger      *zap.Logger
}

// NewOrchestrator creates an Orchestrator. A concurrency of zero or less
// validates all questions at once.
func NewOrchestrator(v AnswerValidator, concurrency int, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{validator: v, concurrency: concurrency, logger: logger}
}

// ValidateAll returns a copy of qs, in the same order, with a verdict
// attached to each question. qs itself is not modified. A failed
// validation only affects its own question.
func (o *Orchestrator) ValidateAll(ctx context.Context, qs []quiz.Question) []quiz.Question {
	start := time.Now()
	out := make([]quiz.Question, len(qs))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i := range qs {
		q := qs[i]
		g.Go(func() error {
			v := o.validator.Validate(ctx, q.Question, q.CorrectOption(), q.Explanation)
			out[i] = q.WithValidation(v)
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info("validated quiz answers",
		zap.Int("questions", len(qs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out
}
