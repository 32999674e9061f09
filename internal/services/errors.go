package services

import (
	"errors"
	"fmt"
)

// Completion service failures.
var (
	ErrTransport     = errors.New("completion service unavailable")
	ErrQuotaExceeded = errors.New("completion service quota exceeded")
)

// Extraction failures. Every child matches ErrMalformedResponse via errors.Is.
var (
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrNoJSONFound       = fmt.Errorf("%w: no JSON payload found", ErrMalformedResponse)
	ErrInvalidJSON       = fmt.Errorf("%w: JSON payload could not be parsed", ErrMalformedResponse)
	ErrResponseTooLarge  = fmt.Errorf("%w: response exceeds size limit", ErrMalformedResponse)
)

var ErrGenerationFailed = errors.New("question generation failed")

// ValidationError reports missing or invalid caller input per field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }
