package quiz

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Answer symbols.
const (
	AnswerA = "a"
	AnswerB = "b"
	AnswerC = "c"
	AnswerD = "d"
)

// Question is one multiple-choice quiz item. Values built by NewQuestion
// always hold trimmed, non-empty text and a valid answer symbol.
type Question struct {
	Question      string            `json:"question" validate:"required"`
	OptionA       string            `json:"option_a" validate:"required"`
	OptionB       string            `json:"option_b" validate:"required"`
	OptionC       string            `json:"option_c" validate:"required"`
	OptionD       string            `json:"option_d" validate:"required"`
	CorrectAnswer string            `json:"correct_answer" validate:"required,oneof=a b c d"`
	Explanation   string            `json:"explanation" validate:"required"`
	Validation    *ValidationResult `json:"validation,omitempty" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so errors match what the model was asked to produce.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewQuestion trims every text field and checks the question invariants.
// The answer symbol is matched exactly: "A" is rejected.
func NewQuestion(question, optionA, optionB, optionC, optionD, correctAnswer, explanation string) (*Question, error) {
	q := &Question{
		Question:      strings.TrimSpace(question),
		OptionA:       strings.TrimSpace(optionA),
		OptionB:       strings.TrimSpace(optionB),
		OptionC:       strings.TrimSpace(optionC),
		OptionD:       strings.TrimSpace(optionD),
		CorrectAnswer: strings.TrimSpace(correctAnswer),
		Explanation:   strings.TrimSpace(explanation),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks the invariants without modifying q.
func (q *Question) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &SchemaViolationError{Reason: err.Error()}
	}

	fe := verrs[0]
	reason := "must not be empty"
	if fe.Tag() == "oneof" {
		reason = fmt.Sprintf("must be one of a, b, c, d (got %q)", fe.Value())
	}
	return &SchemaViolationError{Field: fe.Field(), Reason: reason}
}

// Options returns the option texts keyed by answer symbol.
func (q *Question) Options() map[string]string {
	return map[string]string{
		AnswerA: q.OptionA,
		AnswerB: q.OptionB,
		AnswerC: q.OptionC,
		AnswerD: q.OptionD,
	}
}

// CorrectOption returns the text of the option marked correct.
func (q *Question) CorrectOption() string {
	return q.Options()[q.CorrectAnswer]
}

// WithValidation returns a copy of q carrying the verdict.
func (q Question) WithValidation(v ValidationResult) Question {
	q.Validation = &v
	return q
}

// APIOptions is the options object of the HTTP response.
type APIOptions struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// APIQuestion is the HTTP response shape of a question.
type APIQuestion struct {
	Question      string            `json:"question"`
	Options       APIOptions        `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Validation    *ValidationResult `json:"validation,omitempty"`
}

// APIFormat converts q to its HTTP response shape. The validation key is
// only present when a verdict was attached.
func (q *Question) APIFormat() APIQuestion {
	out := APIQuestion{
		Question: q.Question,
		Options: APIOptions{
			A: q.OptionA,
			B: q.OptionB,
			C: q.OptionC,
			D: q.OptionD,
		},
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	if q.Validation != nil {
		v := q.Validation.normalized()
		out.Validation = &v
	}
	return out
}

// APIFormatAll converts a question list in order.
func APIFormatAll(qs []Question) []APIQuestion {
	out := make([]APIQuestion, len(qs))
	for i := range qs {
		out[i] = qs[i].APIFormat()
	}
	return out
}
