package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/platform/logger"
	"github.com/minhpham2409/quiz-app/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if no record exists for the pair.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, question_id, is_correct, incorrect_count, last_attempted, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1 AND question_id = $2
	`

	var p domain.Progress
	err := s.db.QueryRowContext(ctx, query, userID, questionID).Scan(
		&p.UserID,
		&p.QuestionID,
		&p.IsCorrect,
		&p.IncorrectCount,
		&p.LastAttempted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, MapError(err)
	}

	return &p, nil
}

// Upsert implements store.ProgressStore.Upsert
// The whole read-modify-write happens inside one INSERT ... ON CONFLICT
// statement, so concurrent submissions for the same pair serialize on the
// row without a surrounding transaction. A correct answer zeroes the
// incorrect count; an incorrect answer increments the stored count.
func (s *PostgresProgressStore) Upsert(
	ctx context.Context,
	userID, questionID uuid.UUID,
	isCorrect bool,
	attemptedAt time.Time,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_progress (user_id, question_id, is_correct, incorrect_count, last_attempted, created_at, updated_at)
		VALUES ($1, $2, $3, CASE WHEN $3 THEN 0 ELSE 1 END, $4, $4, $4)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			is_correct      = EXCLUDED.is_correct,
			incorrect_count = CASE WHEN EXCLUDED.is_correct THEN 0 ELSE user_progress.incorrect_count + 1 END,
			last_attempted  = EXCLUDED.last_attempted,
			updated_at      = EXCLUDED.updated_at
		RETURNING user_id, question_id, is_correct, incorrect_count, last_attempted, created_at, updated_at
	`

	var p domain.Progress
	err := s.db.QueryRowContext(ctx, query, userID, questionID, isCorrect, attemptedAt).Scan(
		&p.UserID,
		&p.QuestionID,
		&p.IsCorrect,
		&p.IncorrectCount,
		&p.LastAttempted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during progress upsert",
				slog.String("user_id", userID.String()),
				slog.String("question_id", questionID.String()))
			return nil, fmt.Errorf("%w: question with ID %s not found",
				store.ErrInvalidEntity, questionID)
		}
		log.Error("failed to upsert progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, MapError(err)
	}

	log.Debug("progress recorded",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Bool("is_correct", p.IsCorrect),
		slog.Int("incorrect_count", p.IncorrectCount))
	return &p, nil
}

// ResetForUser implements store.ProgressStore.ResetForUser
// Rows are zeroed rather than deleted so attempt history timestamps survive
// in created_at. Resetting an empty history is a no-op.
func (s *PostgresProgressStore) ResetForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE user_progress
		 SET is_correct = FALSE, incorrect_count = 0, last_attempted = NULL, updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		log.Error("failed to reset progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("progress reset",
		slog.String("user_id", userID.String()),
		slog.Int64("rows", rowsAffected))
	return int(rowsAffected), nil
}

// GetStats implements store.ProgressStore.GetStats
// Aggregates over the user's questions joined with progress, so questions
// without a progress record still count toward the totals.
func (s *PostgresProgressStore) GetStats(ctx context.Context, userID uuid.UUID) (*store.PracticeStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(q.id),
		       COUNT(*) FILTER (WHERE p.is_correct = TRUE),
		       COALESCE(SUM(p.incorrect_count), 0)
		FROM questions q
		LEFT JOIN user_progress p
		       ON p.question_id = q.id AND p.user_id = q.user_id
		WHERE q.user_id = $1
	`

	var stats store.PracticeStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Correct,
		&stats.TotalIncorrectAttempts,
	)
	if err != nil {
		log.Error("failed to aggregate practice stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	stats.Remaining = stats.Total - stats.Correct
	return &stats, nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
