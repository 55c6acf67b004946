package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizgen_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"route"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_llm_requests_total",
			Help: "LLM calls by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	LLMLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizgen_llm_request_duration_seconds",
			Help:    "LLM call latency by purpose",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"purpose"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_llm_tokens_total",
			Help: "Tokens consumed by purpose and direction",
		},
		[]string{"purpose", "direction"},
	)

	// QuizGenerations counts generator runs; outcome is "ok" or "sentinel".
	QuizGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_generations_total",
			Help: "Quiz generation runs by outcome",
		},
		[]string{"outcome"},
	)

	GenerationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizgen_generation_duration_seconds",
			Help:    "Quiz generation latency, validation excluded",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
	)

	QuestionsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizgen_questions_generated_total",
			Help: "Questions returned by successful generation runs",
		},
	)

	// Verdicts counts answer validations by verdict: "true", "false" or "unknown".
	Verdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_validation_verdicts_total",
			Help: "Answer validation verdicts",
		},
		[]string{"verdict"},
	)

	AgentSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizgen_agent_steps",
			Help:    "Reasoning steps taken per agent run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_search_requests_total",
			Help: "Web searches by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	SearchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizgen_search_cache_total",
			Help: "Search cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
