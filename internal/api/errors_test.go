package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/service"
	"github.com/minhpham2409/quiz-app/internal/service/auth"
	"github.com/minhpham2409/quiz-app/internal/service/practice"
	"github.com/minhpham2409/quiz-app/internal/store"
	"github.com/minhpham2409/quiz-app/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error defaults to 500",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "invalid token",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped expired token",
			err:            fmt.Errorf("failed to authenticate: %w", auth.ErrExpiredToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid refresh token",
			err:            auth.ErrInvalidRefreshToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "question not found",
			err:            store.ErrQuestionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "practice question not found",
			err:            practice.ErrQuestionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "flashcard index out of range",
			err:            service.ErrIndexOutOfRange,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "duplicate email",
			err:            store.ErrEmailExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid answer label",
			err:            practice.ErrInvalidAnswer,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative flashcard index",
			err:            service.ErrInvalidIndex,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty generation topic",
			err:            task.ErrEmptyTopic,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error",
			err:            domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "generation disabled",
			err:            service.ErrGenerationDisabled,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unknown error defaults to 500",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"refresh token", auth.ErrExpiredRefreshToken, "Invalid refresh token"},
		{"question not found", store.ErrQuestionNotFound, "Question not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"invalid answer", practice.ErrInvalidAnswer, "Invalid answer"},
		{"generation disabled", service.ErrGenerationDisabled, "Question generation is not available"},
		{"unknown", errors.New("pq: connection refused"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverLeaksInternalDetail(t *testing.T) {
	t.Parallel()

	internal := fmt.Errorf("query failed: SELECT * FROM users WHERE email = 'x@y.com': %w",
		errors.New("connection to db-host:5432 refused"))

	msg := GetSafeErrorMessage(internal)
	assert.NotContains(t, msg, "SELECT")
	assert.NotContains(t, msg, "db-host")
	assert.NotContains(t, msg, "x@y.com")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	t.Run("extracts field and tag", func(t *testing.T) {
		t.Parallel()
		err := errors.New(
			"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
		assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))
	})

	t.Run("unknown shape falls back to generic", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
	})
}
