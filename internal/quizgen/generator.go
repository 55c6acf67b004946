// Package quizgen turns a learning objective into multiple-choice questions.
package quizgen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/extract"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/metrics"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Generator produces quiz questions. Generate never fails: on any error it
// returns the single sentinel question from quiz.Sentinel.
type Generator interface {
	Generate(ctx context.Context, objective string, count int, validate bool) []quiz.Question
}

// QuizValidator attaches verdicts to generated questions.
type QuizValidator interface {
	ValidateAll(ctx context.Context, qs []quiz.Question) []quiz.Question
}

// Config controls the generation request.
type Config struct {
	MaxTokens    int
	Temperature  float64
	MinQuestions int
	MaxQuestions int
}

// MaxQuestionsLimit bounds MaxQuestions whatever the caller configures.
const MaxQuestionsLimit = 10

// DefaultConfig allows 1 to 10 questions.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    4096,
		Temperature:  0.7,
		MinQuestions: 1,
		MaxQuestions: MaxQuestionsLimit,
	}
}

// ClampCount limits n to [lo, hi].
func ClampCount(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// LLMGenerator asks an LLM for questions in a single call and recovers the
// JSON document from whatever it returns.
type LLMGenerator struct {
	provider  llm.Provider
	validator QuizValidator
	cfg       Config
	logger    *zap.Logger
}

// New creates an LLMGenerator. validator may be nil, in which case
// validation requests are ignored.
func New(provider llm.Provider, validator QuizValidator, cfg Config, logger *zap.Logger) *LLMGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.MinQuestions < 1 || cfg.MinQuestions > MaxQuestionsLimit {
		cfg.MinQuestions = def.MinQuestions
	}
	if cfg.MaxQuestions > MaxQuestionsLimit {
		cfg.MaxQuestions = MaxQuestionsLimit
	}
	if cfg.MaxQuestions < cfg.MinQuestions {
		cfg.MaxQuestions = def.MaxQuestions
	}
	return &LLMGenerator{provider: provider, validator: validator, cfg: cfg, logger: logger}
}

// Generate returns the questions the model wrote for objective, which may
// be more or fewer than count. With validate set, every question carries a
// verdict.
func (g *LLMGenerator) Generate(ctx context.Context, objective string, count int, validate bool) (qs []quiz.Question) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	count = ClampCount(count, g.cfg.MinQuestions, g.cfg.MaxQuestions)
	log := g.logger.With(zap.String("objective", objective), zap.Int("count", count))
	if id := llm.RequestIDFrom(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("quiz generation panicked", zap.Any("panic", r))
			metrics.QuizGenerations.WithLabelValues("sentinel").Inc()
			qs = quiz.Sentinel(fmt.Errorf("%v", r))
		}
	}()

	start := time.Now()
	questions, err := g.generate(ctx, objective, count, log)
	metrics.GenerationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("error generating quiz questions", zap.Error(err))
		metrics.QuizGenerations.WithLabelValues("sentinel").Inc()
		return quiz.Sentinel(err)
	}

	metrics.QuizGenerations.WithLabelValues("ok").Inc()
	metrics.QuestionsGenerated.Add(float64(len(questions)))
	log.Info("generated quiz",
		zap.Int("questions", len(questions)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !validate {
		return questions
	}
	if g.validator == nil {
		log.Warn("validation requested but no validator is configured")
		return questions
	}
	log.Info("validating correct answers for quiz questions")
	return g.validator.ValidateAll(ctx, questions)
}

func (g *LLMGenerator) generate(ctx context.Context, objective string, count int, log *zap.Logger) ([]quiz.Question, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: UserPrompt(objective, count)},
		},
		JSONMode:    true,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, &quiz.UpstreamError{Op: "generate quiz", Err: err}
	}

	raw := resp.Text()
	log.Debug("raw quiz content", zap.String("raw", llm.Preview(raw, 200)))

	out, err := extract.QuizOutput(raw)
	if err != nil {
		return nil, err
	}
	if len(out.Questions) != count {
		log.Info("model returned a different number of questions",
			zap.Int("requested", count),
			zap.Int("returned", len(out.Questions)),
		)
	}
	return out.Questions, nil
}
