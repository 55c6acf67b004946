// Package search provides the web-search capability the validation agent
// uses to check quiz answers.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/metrics"
)

// ErrSearchTimeout is returned when the backend does not answer in time.
var ErrSearchTimeout = errors.New("web search timed out")

// Searcher runs a web query and returns the results as plain text the
// model can read.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Backend names.
const (
	BackendDuckDuckGo = "duckduckgo"
	BackendGoogle     = "google"
)

// Config selects and configures a search backend.
type Config struct {
	// Provider is BackendDuckDuckGo (default) or BackendGoogle.
	Provider string

	// BaseURL overrides the backend endpoint. Tests point it at httptest.
	BaseURL string

	// APIKey and EngineID are the Google Custom Search credentials.
	APIKey   string
	EngineID string

	MaxResults int
	Timeout    time.Duration

	// CacheTTL is how long results stay in redis. Zero disables caching.
	CacheTTL time.Duration
}

// DefaultConfig returns the DuckDuckGo backend with a 10s timeout.
func DefaultConfig() Config {
	return Config{
		Provider:   BackendDuckDuckGo,
		MaxResults: 5,
		Timeout:    10 * time.Second,
		CacheTTL:   time.Hour,
	}
}

// Validate checks that the selected backend is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case "", BackendDuckDuckGo:
		return nil
	case BackendGoogle:
		if c.APIKey == "" || c.EngineID == "" {
			return fmt.Errorf("google search requires GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID")
		}
		return nil
	default:
		return fmt.Errorf("unknown search provider %q (expected duckduckgo or google)", c.Provider)
	}
}

// New builds the configured backend, instruments it and, when rdb is
// non-nil and CacheTTL positive, puts a redis cache in front of it.
func New(cfg Config, rdb *redis.Client, logger *zap.Logger) (Searcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		s       Searcher
		backend = cfg.Provider
	)
	switch backend {
	case BackendGoogle:
		s = NewGoogle(cfg)
	default:
		backend = BackendDuckDuckGo
		s = NewDuckDuckGo(cfg)
	}

	s = &instrumented{inner: s, backend: backend, logger: logger}
	if rdb != nil && cfg.CacheTTL > 0 {
		s = NewCached(s, rdb, cfg.CacheTTL, logger)
	}
	return s, nil
}

// Result is one search hit.
type Result struct {
	Title   string
	Snippet string
	Link    string
}

// formatResults renders hits as numbered blocks, each ending in its URL so
// the agent can cite it.
func formatResults(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. ", i+1)
		if r.Title != "" {
			b.WriteString(r.Title)
			b.WriteString(": ")
		}
		b.WriteString(r.Snippet)
		if r.Link != "" {
			b.WriteString("\nURL: ")
			b.WriteString(r.Link)
		}
	}
	return b.String()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doGet performs the request and maps timeouts to ErrSearchTimeout.
func doGet(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrSearchTimeout
		}
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}
	return resp, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

type instrumented struct {
	inner   Searcher
	backend string
	logger  *zap.Logger
}

func (s *instrumented) Search(ctx context.Context, query string) (string, error) {
	start := time.Now()
	out, err := s.inner.Search(ctx, query)

	outcome := "ok"
	switch {
	case errors.Is(err, ErrSearchTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	metrics.SearchRequests.WithLabelValues(s.backend, outcome).Inc()

	fields := []zap.Field{
		zap.String("backend", s.backend),
		zap.String("query", query),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		s.logger.Warn("web search failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Info("web search completed", fields...)
	}
	return out, err
}
