// Package errors holds the error taxonomy shared by the repositories, services and HTTP handlers.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an id or slug has no matching record
var ErrNotFound = errors.New("record not found")

// ErrDatabaseUnavailable is returned when no store is configured or the connection failed at startup
var ErrDatabaseUnavailable = errors.New("database unavailable")

// FieldError describes one violated input rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when client input violates one or more declared constraints.
// It carries one FieldError per violated rule so the handler can itemize them.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError
// and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrNotificationFailed is returned when a notification could not be delivered after all attempts
type ErrNotificationFailed struct {
	To       string
	Subject  string
	Attempts int
	Reason   error
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("failed to deliver %q to %s after %d attempt(s): %v", e.Subject, e.To, e.Attempts, e.Reason)
}

func (e ErrNotificationFailed) Unwrap() error {
	return e.Reason
}

// ErrLinkCheckFailed is returned when a project link health check fails
type ErrLinkCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrLinkCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
