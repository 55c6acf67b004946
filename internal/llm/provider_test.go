package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_ServesQueueInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: []byte(`{"questions":[]}`), Usage: Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}},
		TextResponse("Thought: I should search."),
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Text() != `{"questions":[]}` {
		t.Fatalf("unexpected first content %q", first.Text())
	}
	if first.Usage.InputTokens != 12 {
		t.Fatalf("expected 12 input tokens, got %d", first.Usage.InputTokens)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Text() != "Thought: I should search." {
		t.Fatalf("unexpected second content %q", second.Text())
	}
}

func TestMockProvider_EmptyQueueIsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestMockProvider_ResponderWinsOverQueue(t *testing.T) {
	mock := NewMockProvider(TextResponse("queued"))
	mock.Responder = func(req Request) MockResponse {
		return TextResponse("echo: " + req.Messages[0].Content)
	}

	resp, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "echo: hi" {
		t.Fatalf("got %q", resp.Text())
	}
	last, ok := mock.LastCall()
	if !ok || last.Messages[0].Content != "hi" {
		t.Fatalf("last call not recorded: %+v", last)
	}
}

func TestMockProvider_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockProvider(TextResponse("x")).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}
	if id := RequestIDFrom(ctx); id != "" {
		t.Fatalf("expected empty request id, got %q", id)
	}

	ctx = WithRequestID(WithPurpose(ctx, PurposeQuizGen), "req-1")
	if p := PurposeFrom(ctx); p != PurposeQuizGen {
		t.Fatalf("expected %q, got %q", PurposeQuizGen, p)
	}
	if id := RequestIDFrom(ctx); id != "req-1" {
		t.Fatalf("expected req-1, got %q", id)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"max tokens", &ErrMaxTokensExceeded{}, false},
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, true},
		{"unavailable", &ErrProviderUnavailable{Err: errors.New("502")}, true},
		{"invalid response", &ErrInvalidResponse{Err: errors.New("schema")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openai without key", Config{Provider: "openai", Retry: RetryConfig{MaxAttempts: 1}}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}, Retry: RetryConfig{MaxAttempts: 1}}, false},
		{"anthropic without key", Config{Provider: "anthropic", Retry: RetryConfig{MaxAttempts: 1}}, true},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}, Retry: RetryConfig{MaxAttempts: 1}}, false},
		{"mock needs no key", Config{Provider: "mock", Retry: RetryConfig{MaxAttempts: 1}}, false},
		{"zero attempts", Config{Provider: "mock"}, true},
		{"unknown provider", Config{Provider: "unknown", Retry: RetryConfig{MaxAttempts: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithModel(t *testing.T) {
	cfg := DefaultConfig()
	validator := cfg.WithModel("gpt-4o")
	if validator.OpenAI.Model != "gpt-4o" {
		t.Fatalf("expected validator model gpt-4o, got %q", validator.OpenAI.Model)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("original config mutated: %q", cfg.OpenAI.Model)
	}
	if same := cfg.WithModel(""); same.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("empty model should be a no-op, got %q", same.OpenAI.Model)
	}
}
