package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizgen/internal/metrics"
	"github.com/abhisek/quizgen/internal/store"
)

// rawPreviewLen caps how much model output goes into debug logs.
const rawPreviewLen = 200

// LoggingProvider records every LLM call as a structured log line and a
// prometheus observation. When an event repo is configured it also appends
// a row to the event log.
type LoggingProvider struct {
	inner         Provider
	provider      string
	eventRepo     store.EventRepo
	logger        *zap.Logger
	captureBodies bool
}

// LoggingOption configures a LoggingProvider.
type LoggingOption func(*LoggingProvider)

// CaptureBodies makes the event log keep the serialized request and the raw
// response. Without it only metadata is stored.
func CaptureBodies() LoggingOption {
	return func(l *LoggingProvider) { l.captureBodies = true }
}

// WithLogging wraps a Provider with event logging. repo may be nil.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *zap.Logger, opts ...LoggingOption) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &LoggingProvider{inner: p, provider: providerName, eventRepo: repo, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	elapsed := time.Since(start)

	data := store.LLMRequestEventData{
		RequestID: RequestIDFrom(ctx),
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: elapsed.Milliseconds(),
		Success:   err == nil,
	}

	var raw string
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		raw = string(resp.Content)
	}
	if l.captureBodies {
		data.RequestBody = serializeRequest(req)
		data.ResponseBody = raw
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.LLMRequests.WithLabelValues(purpose, outcome).Inc()
	metrics.LLMLatency.WithLabelValues(purpose).Observe(elapsed.Seconds())
	metrics.LLMTokens.WithLabelValues(purpose, "input").Add(float64(data.InputTokens))
	metrics.LLMTokens.WithLabelValues(purpose, "output").Add(float64(data.OutputTokens))

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", data.Model),
		zap.String("purpose", purpose),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if data.RequestID != "" {
		fields = append(fields, zap.String("request_id", data.RequestID))
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", append(fields, zap.String("raw", Preview(raw, rawPreviewLen)))...)
	}

	if l.eventRepo != nil {
		// A broken event log must not fail the call it is recording.
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.Warn("failed to record LLM request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.JSONMode {
		b.WriteString("[response format: json_object]\n")
	}

	if len(req.Stop) > 0 {
		fmt.Fprintf(&b, "[stop: %q]\n", req.Stop)
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
