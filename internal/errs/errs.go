package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist or has been
// soft-deleted.
var ErrNotFound = errors.New("not found")

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
