package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/minhpham2409/quiz-app/internal/domain"
)

// QuestionStore defines the interface for question catalog persistence.
type QuestionStore interface {
	// Create saves a single new question to the store.
	// Returns validation errors from the domain Question if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, question *domain.Question) error

	// CreateMultiple saves multiple questions to the store.
	// IMPORTANT: run this within a transaction (WithTx + RunInTransaction) so
	// the insert is all-or-nothing; outside a transaction partial inserts can
	// remain after a failure.
	// All questions must be valid according to domain validation rules.
	CreateMultiple(ctx context.Context, questions []*domain.Question) error

	// GetForUser retrieves a question by ID, scoped to the owning user.
	// Returns ErrQuestionNotFound if the question does not exist or belongs
	// to a different user. This is the single ownership-check path used by
	// every mutating operation.
	GetForUser(ctx context.Context, userID, questionID uuid.UUID) (*domain.Question, error)

	// ListByUser retrieves every question owned by userID ordered by
	// ascending creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Question, error)

	// GetAtIndex retrieves the question at the given 0-based position in the
	// ascending-creation-time ordering of userID's questions, along with the
	// user's total question count.
	// Returns ErrQuestionNotFound (with the correct total) when index is out
	// of range.
	GetAtIndex(ctx context.Context, userID uuid.UUID, index int) (*domain.Question, int, error)

	// CountByUser returns the number of questions owned by userID.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// ListCandidates retrieves userID's questions that have either no
	// progress record or one with is_correct=false, each paired with the
	// prior incorrect count (0 when no record exists).
	ListCandidates(ctx context.Context, userID uuid.UUID) ([]*CandidateQuestion, error)

	// Update replaces an existing question's text, answers and correct label.
	// Returns ErrQuestionNotFound if the question does not exist.
	Update(ctx context.Context, question *domain.Question) error

	// Delete removes a question from the store by its ID.
	// Returns ErrQuestionNotFound if the question does not exist.
	//
	// Progress records for the question are removed by the database's
	// ON DELETE CASCADE foreign key; implementations do not delete them in
	// application code.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new QuestionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) QuestionStore
}

// CandidateQuestion pairs a practice candidate with the user's prior
// incorrect count for it. A candidate is a question the user has not yet
// answered correctly.
type CandidateQuestion struct {
	Question       *domain.Question
	IncorrectCount int
}
