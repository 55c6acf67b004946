package quiz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewQuestionTrims(t *testing.T) {
	q, err := NewQuestion("  What is 2+2?\n", " 3", "4 ", "\t5", "6", "b", "  Basic addition. ")
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if q.Question != "What is 2+2?" || q.OptionA != "3" || q.OptionB != "4" || q.OptionC != "5" {
		t.Errorf("fields not trimmed: %+v", q)
	}
	if q.Explanation != "Basic addition." {
		t.Errorf("explanation = %q", q.Explanation)
	}
	if q.CorrectOption() != "4" {
		t.Errorf("CorrectOption = %q, want 4", q.CorrectOption())
	}

	// Trimming is idempotent.
	again, err := NewQuestion(q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectAnswer, q.Explanation)
	if err != nil {
		t.Fatalf("NewQuestion again: %v", err)
	}
	if *again != *q {
		t.Errorf("second construction differs: %+v vs %+v", again, q)
	}
}

func TestNewQuestionRejects(t *testing.T) {
	tests := []struct {
		name      string
		args      [7]string
		wantField string
	}{
		{"blank question", [7]string{"   ", "a", "b", "c", "d", "a", "e"}, "question"},
		{"blank option c", [7]string{"q", "a", "b", "\n\t", "d", "a", "e"}, "option_c"},
		{"blank explanation", [7]string{"q", "a", "b", "c", "d", "a", ""}, "explanation"},
		{"uppercase answer", [7]string{"q", "a", "b", "c", "d", "A", "e"}, "correct_answer"},
		{"out of range answer", [7]string{"q", "a", "b", "c", "d", "e", "e"}, "correct_answer"},
		{"empty answer", [7]string{"q", "a", "b", "c", "d", " ", "e"}, "correct_answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			_, err := NewQuestion(a[0], a[1], a[2], a[3], a[4], a[5], a[6])
			if !errors.Is(err, ErrSchemaViolation) {
				t.Fatalf("err = %v, want schema violation", err)
			}
			var sv *SchemaViolationError
			if !errors.As(err, &sv) {
				t.Fatalf("err is %T, want *SchemaViolationError", err)
			}
			if sv.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", sv.Field, tt.wantField)
			}
		})
	}
}

func TestAPIFormat(t *testing.T) {
	q, err := NewQuestion("Capital of France?", "Berlin", "Madrid", "Paris", "Rome", "c", "Paris is the capital.")
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}

	out, err := json.Marshal(q.APIFormat())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "validation") {
		t.Errorf("unvalidated question carries validation key: %s", out)
	}
	if !strings.Contains(string(out), `"options":{"a":"Berlin","b":"Madrid","c":"Paris","d":"Rome"}`) {
		t.Errorf("unexpected options shape: %s", out)
	}

	validated := q.WithValidation(Inconclusive("no evidence"))
	if q.Validation != nil {
		t.Fatal("WithValidation mutated the original question")
	}
	out, err = json.Marshal(validated.APIFormat())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"validation":{"is_correct":null,"explanation":"no evidence","sources":[]}`) {
		t.Errorf("unexpected validation shape: %s", out)
	}
}

func TestAPIFormatNilSources(t *testing.T) {
	q := Question{Question: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "a", Explanation: "e"}
	q = q.WithValidation(ValidationResult{Explanation: "x"})

	out, err := json.Marshal(q.APIFormat())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"sources":[]`) {
		t.Errorf("nil sources should serialize as []: %s", out)
	}
}

func TestSentinel(t *testing.T) {
	qs := Sentinel(errors.New("provider down"))
	if len(qs) != 1 {
		t.Fatalf("len = %d, want 1", len(qs))
	}
	s := qs[0]
	if !strings.HasPrefix(s.Question, "Error generating quiz question") || !strings.Contains(s.Question, "provider down") {
		t.Errorf("question = %q", s.Question)
	}
	if s.CorrectAnswer != "c" {
		t.Errorf("correct answer = %q, want c", s.CorrectAnswer)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("sentinel is not a valid question: %v", err)
	}
	if !IsSentinel(qs) {
		t.Error("IsSentinel = false")
	}
	if len(Sentinel(nil)) != 1 {
		t.Error("Sentinel(nil) should still return one question")
	}
}

func TestErrorClasses(t *testing.T) {
	cause := errors.New("boom")

	up := &UpstreamError{Op: "generate quiz", Err: cause}
	if !errors.Is(up, ErrUpstreamCallFailed) || !errors.Is(up, cause) {
		t.Errorf("UpstreamError should match its class and cause")
	}

	ex := &ExtractionError{Raw: "nothing", Attempts: []error{cause}}
	if !errors.Is(ex, ErrExtractionFailed) || !errors.Is(ex, cause) {
		t.Errorf("ExtractionError should match its class and attempts")
	}
	if !strings.Contains((&ExtractionError{}).Error(), "no JSON candidate") {
		t.Errorf("empty ExtractionError message = %q", (&ExtractionError{}).Error())
	}

	if !errors.Is(&InputError{Message: "Learning objective is required"}, ErrInputInvalid) {
		t.Error("InputError should match ErrInputInvalid")
	}
}
