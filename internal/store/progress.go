package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/minhpham2409/quiz-app/internal/domain"
)

// PracticeStats summarizes a user's practice state across their catalog.
type PracticeStats struct {
	// Total is the user's total question count.
	Total int `json:"total"`

	// Correct is the number of progress records with is_correct=true.
	Correct int `json:"correct"`

	// Remaining is Total minus Correct.
	Remaining int `json:"remaining"`

	// TotalIncorrectAttempts is the sum of incorrect counts across all of the
	// user's progress records, 0 when none exist.
	TotalIncorrectAttempts int `json:"totalIncorrectAttempts"`
}

// ProgressStore defines the interface for per-(user, question) progress
// persistence.
type ProgressStore interface {
	// Get retrieves the progress record for the given (user, question) pair.
	// Returns ErrProgressNotFound if no record exists yet.
	Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.Progress, error)

	// Upsert records an answer outcome atomically: it inserts the progress
	// record if absent or updates it otherwise, in a single statement keyed
	// by the unique (user_id, question_id) pair. A correct answer sets
	// is_correct=true and incorrect_count=0; an incorrect answer sets
	// is_correct=false and increments incorrect_count (starting at 1 for a
	// new record). last_attempted is stamped with attemptedAt either way.
	//
	// The single-statement upsert is what protects against lost updates when
	// the same user double-submits concurrently; do not split it into a
	// read-modify-write sequence.
	//
	// Returns the post-update record.
	Upsert(
		ctx context.Context,
		userID, questionID uuid.UUID,
		isCorrect bool,
		attemptedAt time.Time,
	) (*domain.Progress, error)

	// ResetForUser returns every progress record owned by userID to the
	// untried state: is_correct=false, incorrect_count=0, last_attempted
	// unset. Records are not deleted. Idempotent. Returns the number of
	// records reset.
	ResetForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// GetStats computes the user's practice statistics from the questions and
	// progress tables. Recomputed on every call.
	GetStats(ctx context.Context, userID uuid.UUID) (*PracticeStats, error)

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProgressStore
}
