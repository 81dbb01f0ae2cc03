package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Progress
var (
	ErrEmptyProgressUserID     = errors.New("progress user ID cannot be empty")
	ErrEmptyProgressQuestionID = errors.New("progress question ID cannot be empty")
	ErrNegativeIncorrectCount  = errors.New("incorrect count must be greater than or equal to 0")
)

// Progress tracks a user's practice history for a specific question.
// A record exists only once the user has submitted at least one answer for
// the question; at most one record exists per (user, question) pair.
//
// IncorrectCount tallies wrong attempts since the last correct answer or
// reset: it resets to zero exactly when an answer is judged correct and
// increments by one otherwise.
type Progress struct {
	UserID         uuid.UUID  `json:"user_id"`
	QuestionID     uuid.UUID  `json:"question_id"`
	IsCorrect      bool       `json:"is_correct"`
	IncorrectCount int        `json:"incorrect_count"`
	LastAttempted  *time.Time `json:"last_attempted"` // nil until the first attempt
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewProgress creates a progress record for a user and question in the
// untried state.
func NewProgress(userID, questionID uuid.UUID) (*Progress, error) {
	now := time.Now().UTC()
	progress := &Progress{
		UserID:         userID,
		QuestionID:     questionID,
		IsCorrect:      false,
		IncorrectCount: 0,
		LastAttempted:  nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the Progress has valid data.
// Returns an error if any field fails validation.
func (p *Progress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.QuestionID == uuid.Nil {
		return ErrEmptyProgressQuestionID
	}

	if p.IncorrectCount < 0 {
		return ErrNegativeIncorrectCount
	}

	return nil
}

// RecordAttempt applies the outcome of an answer submission at the given
// time. A correct answer sets IsCorrect and zeroes IncorrectCount; an
// incorrect answer clears IsCorrect and increments IncorrectCount.
func (p *Progress) RecordAttempt(isCorrect bool, attemptedAt time.Time) {
	p.IsCorrect = isCorrect
	if isCorrect {
		p.IncorrectCount = 0
	} else {
		p.IncorrectCount++
	}
	at := attemptedAt.UTC()
	p.LastAttempted = &at
	p.UpdatedAt = at
}
