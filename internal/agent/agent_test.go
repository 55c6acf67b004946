package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/quizgen/internal/llm"
)

type fakeSearcher struct {
	queries []string
	out     string
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.out, f.err
}

func TestRunSearchThenAnswer(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse(" I should look this up.\nAction: Search\nAction Input: \"boiling point of water at sea level\""),
		llm.TextResponse(" The source confirms it.\nFinal Answer: {\"is_correct\": true, \"explanation\": \"100 C\", \"sources\": []}"),
	)
	searcher := &fakeSearcher{out: "1. Water boils at 100 C.\nURL: https://example.com/water"}
	a := New(mock, []Tool{SearchTool(searcher)}, DefaultConfig(), nil)

	out, err := a.Run(context.Background(), "Is 100 C correct?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Final Answer:") {
		t.Errorf("output lacks final answer: %q", out)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "boiling point of water at sea level" {
		t.Errorf("queries = %q", searcher.queries)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	second, _ := mock.LastCall()
	prompt := second.Messages[0].Content
	if !strings.HasPrefix(prompt, "Question: Is 100 C correct?\nThought:") {
		t.Errorf("prompt start = %q", prompt[:40])
	}
	if !strings.Contains(prompt, "Observation: 1. Water boils at 100 C.") {
		t.Errorf("observation not fed back:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "\nThought:") {
		t.Errorf("prompt should end with a Thought cue:\n%s", prompt)
	}
	if len(second.Stop) != 1 || second.Stop[0] != "\nObservation:" {
		t.Errorf("Stop = %q", second.Stop)
	}
	if !strings.Contains(second.System, "Search: Useful for searching the web") {
		t.Errorf("system prompt lacks tool description:\n%s", second.System)
	}
}

func TestRunImmediateFinalAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("I know this.\nFinal Answer: 42"))
	a := New(mock, nil, DefaultConfig(), nil)

	out, err := a.Run(context.Background(), "q")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(out, "Final Answer: 42") {
		t.Errorf("out = %q", out)
	}
}

func TestRunToolErrorsBecomeObservations(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse("Action: Search\nAction Input: x"),
		llm.TextResponse("Action: Browse\nAction Input: y"),
		llm.TextResponse("no idea what format to use"),
		llm.TextResponse("Final Answer: done"),
	)
	searcher := &fakeSearcher{err: errors.New("rate limited")}
	a := New(mock, []Tool{SearchTool(searcher)}, DefaultConfig(), nil)

	if _, err := a.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	last, _ := mock.LastCall()
	prompt := last.Messages[0].Content
	for _, want := range []string{
		"Observation: Error: rate limited",
		"Observation: Browse is not a valid tool, try one of [Search].",
		"Observation: Invalid Format",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt lacks %q:\n%s", want, prompt)
		}
	}
}

func TestRunCapsLongObservations(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse("Action: Search\nAction Input: photosynthesis"),
		llm.TextResponse("Final Answer: done"),
	)
	// 3-byte runes after a 2-byte prefix, so the cap lands mid-character.
	searcher := &fakeSearcher{out: "xy" + strings.Repeat("光", maxObservationLen)}
	a := New(mock, []Tool{SearchTool(searcher)}, DefaultConfig(), nil)

	if _, err := a.Run(context.Background(), "q"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	last, _ := mock.LastCall()
	prompt := last.Messages[0].Content
	if !utf8.ValidString(prompt) {
		t.Fatal("observation cut split a UTF-8 sequence")
	}
	if strings.Count(prompt, "光") >= maxObservationLen/3+1 {
		t.Errorf("observation not capped: %d runes kept", strings.Count(prompt, "光"))
	}
	if !strings.Contains(prompt, "光...") {
		t.Errorf("capped observation should end with an ellipsis")
	}
}

func TestRunMaxSteps(t *testing.T) {
	mock := &llm.MockProvider{
		Responder: func(llm.Request) llm.MockResponse {
			return llm.TextResponse("Action: Search\nAction Input: again")
		},
	}
	a := New(mock, []Tool{SearchTool(&fakeSearcher{out: "nothing"})}, Config{MaxSteps: 3}, nil)

	_, err := a.Run(context.Background(), "q")
	if !errors.Is(err, ErrMaxSteps) {
		t.Fatalf("err = %v, want ErrMaxSteps", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
}

func TestRunProviderError(t *testing.T) {
	cause := &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}
	mock := llm.NewMockProvider(llm.MockResponse{Err: cause})
	a := New(mock, nil, DefaultConfig(), nil)

	_, err := a.Run(context.Background(), "q")
	var pu *llm.ErrProviderUnavailable
	if !errors.As(err, &pu) {
		t.Fatalf("err = %v, want provider error", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := llm.NewMockProvider(llm.TextResponse("Final Answer: x"))
	_, err := New(mock, nil, DefaultConfig(), nil).Run(ctx, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called after cancel")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in        string
		name, arg string
		ok        bool
	}{
		{"Thought: x\nAction: Search\nAction Input: photosynthesis", "Search", "photosynthesis", true},
		{"Action: `Search`\nAction Input: \"quoted query\"\nObservation: made up", "Search", "quoted query", true},
		{"Action 1: Search\nAction 1 Input: numbered", "Search", "numbered", true},
		{"Thought: nothing to do", "", "", false},
		{"Action: \nAction Input: x", "", "", false},
	}
	for _, tt := range tests {
		name, arg, ok := parseAction(tt.in)
		if ok != tt.ok || name != tt.name || arg != tt.arg {
			t.Errorf("parseAction(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, name, arg, ok, tt.name, tt.arg, tt.ok)
		}
	}
}
