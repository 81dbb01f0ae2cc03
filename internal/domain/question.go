package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnswerLabel identifies one of the four answer options of a question.
type AnswerLabel string

// Valid answer labels.
const (
	AnswerA AnswerLabel = "A"
	AnswerB AnswerLabel = "B"
	AnswerC AnswerLabel = "C"
	AnswerD AnswerLabel = "D"
)

// IsValid reports whether the label is one of A, B, C or D.
func (l AnswerLabel) IsValid() bool {
	switch l {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	}
	return false
}

// Question-specific validation errors
var (
	// ErrQuestionIDEmpty is returned when a question ID is empty or nil.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionUserIDEmpty is returned when a question's user ID is empty or nil.
	ErrQuestionUserIDEmpty = errors.New("question user ID cannot be empty")

	// ErrQuestionTextEmpty is returned when a question's text is empty.
	ErrQuestionTextEmpty = errors.New("question text cannot be empty")

	// ErrAnswerTextEmpty is returned when any of the four answer texts is empty.
	ErrAnswerTextEmpty = errors.New("answer text cannot be empty")

	// ErrInvalidCorrectAnswer is returned when the correct-answer label is not one of A-D.
	ErrInvalidCorrectAnswer = errors.New("correct answer must be one of A, B, C or D")
)

// Question represents a multiple-choice question owned by a single user.
// It has exactly four answer options labeled A through D, of which exactly
// one is correct.
type Question struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	QuestionText  string      `json:"question_text"`
	AnswerA       string      `json:"answer_a"`
	AnswerB       string      `json:"answer_b"`
	AnswerC       string      `json:"answer_c"`
	AnswerD       string      `json:"answer_d"`
	CorrectAnswer AnswerLabel `json:"correct_answer"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewQuestion creates a new Question owned by userID.
// It generates a new UUID for the question ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewQuestion(
	userID uuid.UUID,
	text, answerA, answerB, answerC, answerD string,
	correct AnswerLabel,
) (*Question, error) {
	question := &Question{
		ID:            uuid.New(),
		UserID:        userID,
		QuestionText:  text,
		AnswerA:       answerA,
		AnswerB:       answerB,
		AnswerC:       answerC,
		AnswerD:       answerD,
		CorrectAnswer: correct,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// Validate checks if the Question has valid data.
// Returns an error if any field fails validation.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if q.UserID == uuid.Nil {
		return ErrQuestionUserIDEmpty
	}

	if strings.TrimSpace(q.QuestionText) == "" {
		return ErrQuestionTextEmpty
	}

	for _, answer := range []string{q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD} {
		if strings.TrimSpace(answer) == "" {
			return ErrAnswerTextEmpty
		}
	}

	if !q.CorrectAnswer.IsValid() {
		return ErrInvalidCorrectAnswer
	}

	return nil
}

// Answer returns the answer text for the given label.
// Returns an empty string if the label is invalid.
func (q *Question) Answer(label AnswerLabel) string {
	switch label {
	case AnswerA:
		return q.AnswerA
	case AnswerB:
		return q.AnswerB
	case AnswerC:
		return q.AnswerC
	case AnswerD:
		return q.AnswerD
	}
	return ""
}

// Replace overwrites the question's text, answers and correct label, keeping
// identity and creation time, and bumps the UpdatedAt timestamp.
// Returns an error if the replacement data is invalid; on error the question
// is left unchanged.
func (q *Question) Replace(
	text, answerA, answerB, answerC, answerD string,
	correct AnswerLabel,
) error {
	updated := *q
	updated.QuestionText = text
	updated.AnswerA = answerA
	updated.AnswerB = answerB
	updated.AnswerC = answerC
	updated.AnswerD = answerD
	updated.CorrectAnswer = correct

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*q = updated
	return nil
}
