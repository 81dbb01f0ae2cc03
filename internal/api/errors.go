package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/minhpham2409/quiz-app/internal/api/shared"
	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/service"
	"github.com/minhpham2409/quiz-app/internal/service/auth"
	"github.com/minhpham2409/quiz-app/internal/service/practice"
	"github.com/minhpham2409/quiz-app/internal/store"
	"github.com/minhpham2409/quiz-app/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, practice.ErrQuestionNotFound),
		errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, practice.ErrInvalidAnswer),
		errors.Is(err, service.ErrInvalidIndex),
		errors.Is(err, task.ErrEmptyTopic),
		errors.Is(err, task.ErrInvalidCount),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrGenerationDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, practice.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrIndexOutOfRange):
		return "Flashcard index out of range"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, practice.ErrInvalidAnswer):
		return "Invalid answer"

	case errors.Is(err, service.ErrInvalidIndex):
		return "Invalid flashcard index"

	case errors.Is(err, task.ErrEmptyTopic):
		return "Topic cannot be empty"

	case errors.Is(err, task.ErrInvalidCount):
		return "Invalid question count"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	case errors.Is(err, service.ErrGenerationDisabled):
		return "Question generation is not available"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and writes a sanitized error
// response, logging the full (redacted) error server-side. An empty
// userMessage falls back to the safe message for the error type.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError turns a validator error into a client-safe message
// naming only the offending field and constraint.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for
		// 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}
