// Package domain defines the core flashcard entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when an argument or entity fails validation.
	// This is often wrapped in a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrNoInput is returned when the word list is empty or whitespace only.
	// Callers treat it as a silent no-op.
	ErrNoInput = errors.New("no words supplied")

	// ErrNoMatches is returned when a search resolves zero assets.
	// The session is left unchanged and the user is warned.
	ErrNoMatches = errors.New("no matching flashcards for the word+number pattern")

	// ErrInsufficientCards is returned when a requested pair count or
	// grouping needs more cards than are available.
	ErrInsufficientCards = errors.New("not enough cards")

	// ErrAssetSourceUnavailable is returned when the remote asset listing fails.
	ErrAssetSourceUnavailable = errors.New("asset source unavailable")

	// ErrInvalidTransition is returned when an operation is not meaningful
	// in the session's current mode.
	ErrInvalidTransition = errors.New("operation not allowed in current mode")
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// NewInsufficientCardsError reports how many cards were needed and how many exist.
func NewInsufficientCardsError(need, have int) error {
	return fmt.Errorf("%w: need %d, have %d", ErrInsufficientCards, need, have)
}
