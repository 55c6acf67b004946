package quiz

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestNewValidationResultFiltersSources(t *testing.T) {
	yes := true
	v := NewValidationResult(&yes, "ok", []string{
		"https://en.wikipedia.org/wiki/Water",
		"http://x.io",
		"http://a",
		"ftp://files.example.com/water",
		"see textbook",
		"",
		"http://example.com/chem",
	})

	want := []string{"https://en.wikipedia.org/wiki/Water", "http://x.io", "http://example.com/chem"}
	if !reflect.DeepEqual(v.Sources, want) {
		t.Errorf("Sources = %v, want %v", v.Sources, want)
	}
	if v.Verdict() != "true" {
		t.Errorf("Verdict = %q", v.Verdict())
	}
}

func TestNewValidationResultNilSources(t *testing.T) {
	v := NewValidationResult(nil, "x", nil)
	if v.Sources == nil || len(v.Sources) != 0 {
		t.Errorf("Sources = %#v, want empty non-nil", v.Sources)
	}
	if v.Verdict() != "unknown" {
		t.Errorf("Verdict = %q, want unknown", v.Verdict())
	}
}

func TestDecodeVerdict(t *testing.T) {
	v, err := DecodeVerdict([]byte(`{"is_correct": false, "explanation": " The answer is B. ",
		"sources": ["https://www.britannica.com/science/water", "notes"]}`))
	if err != nil {
		t.Fatalf("DecodeVerdict: %v", err)
	}
	if v.IsCorrect == nil || *v.IsCorrect {
		t.Errorf("IsCorrect = %v, want false", v.IsCorrect)
	}
	if v.Explanation != "The answer is B." {
		t.Errorf("Explanation = %q", v.Explanation)
	}
	if len(v.Sources) != 1 {
		t.Errorf("Sources = %v", v.Sources)
	}
}

func TestDecodeVerdictNullIsCorrect(t *testing.T) {
	v, err := DecodeVerdict([]byte(`{"is_correct": null, "explanation": "no sources agree"}`))
	if err != nil {
		t.Fatalf("DecodeVerdict: %v", err)
	}
	if v.IsCorrect != nil {
		t.Errorf("IsCorrect = %v, want nil", *v.IsCorrect)
	}
	if v.Verdict() != "unknown" {
		t.Errorf("Verdict = %q", v.Verdict())
	}
}

func TestDecodeVerdictErrors(t *testing.T) {
	_, err := DecodeVerdict([]byte(`{"is_correct": true`))
	var syn *json.SyntaxError
	if !errors.As(err, &syn) {
		t.Errorf("truncated input: err = %T, want *json.SyntaxError", err)
	}

	_, err = DecodeVerdict([]byte(`{"is_correct": true, "sources": []}`))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("missing explanation: err = %v, want schema violation", err)
	}

	_, err = DecodeVerdict([]byte(`{"is_correct": true, "explanation": "x", "sources": [1, 2]}`))
	if err == nil {
		t.Error("numeric sources should fail")
	}
}
