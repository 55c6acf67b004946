package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/agent"
	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/search"
	"github.com/abhisek/quizgen/internal/store"
	"github.com/abhisek/quizgen/internal/validation"
)

// services holds the wired components shared by serve, generate and
// validate.
type services struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *store.Store
	redis     *redis.Client
	validator *validation.Validator
	generator *quizgen.LLMGenerator
}

// newServices loads configuration, opens the event log when one is
// configured and builds the generation and validation pipelines.
func newServices(ctx context.Context, cmd *cobra.Command) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	s := &services{cfg: cfg, logger: logger}

	// The event log is opt-in; without it no call is persisted.
	var eventRepo store.EventRepo
	dbPath := resolveDBPath(cmd, cfg)
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
		eventRepo = st.EventRepo()
	}

	genProvider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	valProvider, err := llm.NewProvider(ctx, cfg.ValidatorLLM(), eventRepo, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create validator LLM provider: %w", err)
	}

	s.redis = cfg.NewRedisClient()
	searcher, err := search.New(cfg.Search, s.redis, logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create searcher: %w", err)
	}

	agentCfg := agent.DefaultConfig()
	agentCfg.MaxSteps = cfg.AgentMaxSteps
	reAct := agent.New(valProvider, []agent.Tool{agent.SearchTool(searcher)}, agentCfg, logger)

	s.validator = validation.NewValidator(reAct, logger)
	orchestrator := validation.NewOrchestrator(s.validator, cfg.ValidationConcurrency, logger)

	genCfg := quizgen.DefaultConfig()
	genCfg.MaxQuestions = cfg.MaxNumQuestions
	s.generator = quizgen.New(genProvider, orchestrator, genCfg, logger)

	logger.Debug("services ready",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("generation_model", genProvider.ModelID()),
		zap.String("validation_model", valProvider.ModelID()),
		zap.String("search_provider", cfg.Search.Provider),
		zap.Bool("search_cache", s.redis != nil),
		zap.String("db", dbPath),
		zap.Bool("capture_bodies", cfg.LLM.CaptureBodies),
	)
	return s, nil
}

func (s *services) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("close redis", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}
