package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/store"
)

// NextQuestion is a question prepared for practice. The correct answer is
// deliberately absent so clients cannot reveal it before submission.
type NextQuestion struct {
	ID             uuid.UUID `json:"id"`
	QuestionText   string    `json:"question"`
	AnswerA        string    `json:"a"`
	AnswerB        string    `json:"b"`
	AnswerC        string    `json:"c"`
	AnswerD        string    `json:"d"`
	IncorrectCount int       `json:"incorrectCount"`
}

// AnswerResult is the outcome of a submitted answer.
type AnswerResult struct {
	IsCorrect      bool               `json:"isCorrect"`
	CorrectAnswer  domain.AnswerLabel `json:"correctAnswer"`
	IncorrectCount int                `json:"incorrectCount"`
	Explanation    string             `json:"explanation"`
}

// PracticeService provides practice-mode operations over a user's question
// catalog.
type PracticeService interface {
	// SelectNext picks a random question the user has not yet answered
	// correctly. Returns ErrNoQuestionsLeft when every question has been
	// answered correctly (or the catalog is empty). Read-only.
	SelectNext(ctx context.Context, userID uuid.UUID) (*NextQuestion, error)

	// SubmitAnswer grades an answer against the question's correct label and
	// records the outcome. Returns ErrQuestionNotFound if the question does
	// not exist or is owned by another user, ErrInvalidAnswer if the label is
	// not one of a-d.
	SubmitAnswer(
		ctx context.Context,
		userID, questionID uuid.UUID,
		answer domain.AnswerLabel,
	) (*AnswerResult, error)

	// ResetProgress returns all of the user's progress records to the
	// untried state. Idempotent. Returns the user's question count.
	ResetProgress(ctx context.Context, userID uuid.UUID) (int, error)

	// GetStats computes the user's practice statistics.
	GetStats(ctx context.Context, userID uuid.UUID) (*store.PracticeStats, error)
}

// Common error types for PracticeService
var (
	// ErrNoQuestionsLeft indicates every question has been answered correctly.
	ErrNoQuestionsLeft = errors.New("no questions left to practice")

	// ErrQuestionNotFound indicates the question does not exist or is owned
	// by another user.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidAnswer indicates an invalid answer label was provided.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ServiceError wraps errors from the practice service with operation context
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
