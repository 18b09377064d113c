package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in SessionServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrSessionNotFound indicates the session ID is unknown or has expired.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed indicates the session was shut down while a command
	// was waiting to run, or the service itself is closed.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionClosed = errors.New("session closed")
)

// SessionServiceError is a custom error type for unexpected session service errors.
type SessionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SessionServiceError.
func (e *SessionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("session service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SessionServiceError) Unwrap() error {
	return e.Err
}

// NewSessionServiceError creates a new SessionServiceError.
func NewSessionServiceError(operation, message string, err error) *SessionServiceError {
	return &SessionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

var expectedErrors = []error{
	ErrSessionNotFound,
	ErrSessionClosed,
	domain.ErrValidation,
	domain.ErrNoInput,
	domain.ErrNoMatches,
	domain.ErrInsufficientCards,
	domain.ErrAssetSourceUnavailable,
	domain.ErrInvalidTransition,
}

// wrapError passes expected conditions through unchanged and wraps
// everything else with the operation name.
func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range expectedErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return NewSessionServiceError(operation, "unexpected error", err)
}
