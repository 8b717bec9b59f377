package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a resource or a path parent does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a rejected input, attributed to a field when one is
// responsible. Handlers render it as a 400 with the field as the key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
