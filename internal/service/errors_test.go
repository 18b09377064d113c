package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "session not found", ErrSessionNotFound.Error())
	assert.Equal(t, "session closed", ErrSessionClosed.Error())
	assert.False(t, errors.Is(ErrSessionNotFound, ErrSessionClosed))
}

func TestSessionServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SessionServiceError
		expected string
	}{
		{
			name:     "with wrapped error",
			err:      NewSessionServiceError("search", "unexpected error", errors.New("boom")),
			expected: "session service search failed: unexpected error: boom",
		},
		{
			name:     "without wrapped error",
			err:      NewSessionServiceError("flip", "deck missing", nil),
			expected: "session service flip failed: deck missing",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSessionServiceError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewSessionServiceError("advance", "unexpected error", inner)
	assert.Same(t, inner, errors.Unwrap(err))
	assert.True(t, errors.Is(err, inner))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, wrapError("op", nil))

	expected := []error{
		ErrSessionNotFound,
		ErrSessionClosed,
		domain.ErrNoMatches,
		fmt.Errorf("%w: timeout", domain.ErrAssetSourceUnavailable),
		domain.NewInsufficientCardsError(3, 1),
		domain.NewValidationError("pairs", "must be at least 1", domain.ErrValidation),
	}
	for _, err := range expected {
		assert.Same(t, err, wrapError("op", err), "expected errors pass through: %v", err)
	}

	err := wrapError("op", errors.New("boom"))
	var svcErr *SessionServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "op", svcErr.Operation)
	assert.Equal(t, "session service op failed: unexpected error: boom", err.Error())
}
