package shared

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrImportFormat indicates an import document missing required sections.
	ErrImportFormat = errors.New("invalid import format")
	// ErrPersistence indicates the document could not be written.
	ErrPersistence = errors.New("persistence failed")
)

// ValidationError describes rejected input and the field keys involved.
type ValidationError struct {
	Message string
	Fields  []string
}

// NewValidationError builds a ValidationError.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidationFields extracts the field keys carried by err, if any.
func ValidationFields(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
