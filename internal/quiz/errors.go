package quiz

import (
	"errors"
	"fmt"
)

// Error classes of the generation and validation pipeline. Typed errors
// below unwrap to one of these, so callers can branch with errors.Is.
var (
	ErrSchemaViolation    = errors.New("schema violation")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrUpstreamCallFailed = errors.New("upstream call failed")
	ErrInputInvalid       = errors.New("invalid input")
)

// SchemaViolationError reports a field that breaks a model invariant.
type SchemaViolationError struct {
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema violation: %s", e.Reason)
	}
	return fmt.Sprintf("schema violation: %s: %s", e.Field, e.Reason)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }

// ExtractionError is returned when no candidate in a model response
// decodes into a valid object. Raw keeps the full response for diagnostics.
type ExtractionError struct {
	Raw      string
	Attempts []error
}

func (e *ExtractionError) Error() string {
	if len(e.Attempts) == 0 {
		return "extraction failed: no JSON candidate found in response"
	}
	return fmt.Sprintf("extraction failed after %d candidates: %v", len(e.Attempts), e.Attempts[len(e.Attempts)-1])
}

// Unwrap exposes the class sentinel and every per-candidate error.
func (e *ExtractionError) Unwrap() []error {
	return append([]error{ErrExtractionFailed}, e.Attempts...)
}

// UpstreamError wraps a failure of the LLM, agent or search backend.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamCallFailed, e.Err}
}

// InputError is a client-side fault, surfaced as HTTP 400.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return ErrInputInvalid }
