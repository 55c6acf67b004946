package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/quizgen/internal/quiz"
)

func makeQuestions(t *testing.T, n int) []quiz.Question {
	t.Helper()
	qs := make([]quiz.Question, n)
	for i := range qs {
		q, err := quiz.NewQuestion(fmt.Sprintf("question %d", i), "opt a", "opt b", fmt.Sprintf("answer %d", i), "opt d", "c", "because")
		if err != nil {
			t.Fatalf("NewQuestion: %v", err)
		}
		qs[i] = *q
	}
	return qs
}

type validatorFunc func(ctx context.Context, q, a, e string) quiz.ValidationResult

func (f validatorFunc) Validate(ctx context.Context, q, a, e string) quiz.ValidationResult {
	return f(ctx, q, a, e)
}

func TestValidateAllPreservesOrder(t *testing.T) {
	for n := 1; n <= 10; n++ {
		qs := makeQuestions(t, n)
		v := validatorFunc(func(_ context.Context, q, a, _ string) quiz.ValidationResult {
			// Later questions finish first.
			var idx int
			fmt.Sscanf(q, "question %d", &idx)
			time.Sleep(time.Duration(n-idx) * time.Millisecond)
			yes := true
			return quiz.NewValidationResult(&yes, q+" -> "+a, nil)
		})

		out := NewOrchestrator(v, 0, nil).ValidateAll(context.Background(), qs)
		if len(out) != n {
			t.Fatalf("n=%d: got %d results", n, len(out))
		}
		for i := range out {
			if out[i].Question != qs[i].Question {
				t.Errorf("n=%d: slot %d holds %q", n, i, out[i].Question)
			}
			want := fmt.Sprintf("question %d -> answer %d", i, i)
			if out[i].Validation == nil || out[i].Validation.Explanation != want {
				t.Errorf("n=%d: slot %d validation = %+v, want %q", n, i, out[i].Validation, want)
			}
			if qs[i].Validation != nil {
				t.Errorf("n=%d: input question %d was mutated", n, i)
			}
		}
	}
}

func TestValidateAllRunsConcurrently(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	v := validatorFunc(func(context.Context, string, string, string) quiz.ValidationResult {
		started.Done()
		select {
		case <-allStarted:
			return quiz.Inconclusive("ok")
		case <-time.After(5 * time.Second):
			return quiz.Inconclusive("timed out waiting for siblings")
		}
	})

	out := NewOrchestrator(v, 0, nil).ValidateAll(context.Background(), makeQuestions(t, n))
	for i, q := range out {
		if q.Validation.Explanation != "ok" {
			t.Errorf("question %d: %s", i, q.Validation.Explanation)
		}
	}
}

func TestValidateAllRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	v := validatorFunc(func(context.Context, string, string, string) quiz.ValidationResult {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return quiz.Inconclusive("ok")
	})

	out := NewOrchestrator(v, 2, nil).ValidateAll(context.Background(), makeQuestions(t, 8))
	if len(out) != 8 {
		t.Fatalf("got %d results", len(out))
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestValidateAllIsolatesFailures(t *testing.T) {
	agent := agentFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "question 1'") {
			return "", errors.New("rate limited")
		}
		return `Final Answer: {"is_correct": true, "explanation": "fine", "sources": []}`, nil
	})

	out := NewOrchestrator(NewValidator(agent, nil), 0, nil).ValidateAll(context.Background(), makeQuestions(t, 3))
	verdicts := []string{out[0].Validation.Verdict(), out[1].Validation.Verdict(), out[2].Validation.Verdict()}
	if verdicts[0] != "true" || verdicts[1] != "unknown" || verdicts[2] != "true" {
		t.Errorf("verdicts = %v", verdicts)
	}
	if !strings.Contains(out[1].Validation.Explanation, "rate limited") {
		t.Errorf("failed explanation = %q", out[1].Validation.Explanation)
	}
}

func TestValidateAllEmpty(t *testing.T) {
	out := NewOrchestrator(validatorFunc(nil), 0, nil).ValidateAll(context.Background(), nil)
	if len(out) != 0 {
		t.Errorf("got %d results", len(out))
	}
}
