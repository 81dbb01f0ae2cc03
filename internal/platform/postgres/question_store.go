package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/platform/logger"
	"github.com/minhpham2409/quiz-app/internal/store"
)

// questionColumns is the column list shared by every question SELECT.
const questionColumns = `id, user_id, question_text, answer_a, answer_b, answer_c, answer_d, correct_answer, created_at, updated_at`

// PostgresQuestionStore implements the store.QuestionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// scanQuestion scans a single question row from the given scanner.
func scanQuestion(row interface {
	Scan(dest ...any) error
}) (*domain.Question, error) {
	var q domain.Question
	var correct string
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.QuestionText,
		&q.AnswerA,
		&q.AnswerB,
		&q.AnswerC,
		&q.AnswerD,
		&correct,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.CorrectAnswer = domain.AnswerLabel(correct)
	return &q, nil
}

// Create implements store.QuestionStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	query := `
		INSERT INTO questions (id, user_id, question_text, answer_a, answer_b, answer_c, answer_d, correct_answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		question.ID,
		question.UserID,
		question.QuestionText,
		question.AnswerA,
		question.AnswerB,
		question.AnswerC,
		question.AnswerD,
		string(question.CorrectAnswer),
		question.CreatedAt,
		question.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during question creation",
				slog.String("question_id", question.ID.String()),
				slog.String("user_id", question.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, question.UserID)
		}

		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(err)
	}

	log.Debug("question created",
		slog.String("question_id", question.ID.String()),
		slog.String("user_id", question.UserID.String()))
	return nil
}

// CreateMultiple implements store.QuestionStore.CreateMultiple
// Run within a transaction for all-or-nothing semantics.
func (s *PostgresQuestionStore) CreateMultiple(ctx context.Context, questions []*domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate everything up front so no row is inserted when any element
	// is invalid.
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			log.Warn("question validation failed during bulk create",
				slog.String("error", err.Error()),
				slog.String("question_id", q.ID.String()))
			return err
		}
	}

	for _, q := range questions {
		if err := s.Create(ctx, q); err != nil {
			return err
		}
	}

	log.Info("questions created in bulk",
		slog.Int("count", len(questions)))
	return nil
}

// GetForUser implements store.QuestionStore.GetForUser
// Returns store.ErrQuestionNotFound if the question does not exist or is
// owned by a different user. Every mutating operation goes through this
// single ownership check.
func (s *PostgresQuestionStore) GetForUser(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE id = $1 AND user_id = $2
	`

	question, err := scanQuestion(s.db.QueryRowContext(ctx, query, questionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found for user",
				slog.String("question_id", questionID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return nil, MapError(err)
	}

	return question, nil
}

// ListByUser implements store.QuestionStore.ListByUser
// Questions are ordered by ascending creation time, with ID as tie-break so
// the ordering is stable.
func (s *PostgresQuestionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list questions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	questions := make([]*domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}

	return questions, nil
}

// GetAtIndex implements store.QuestionStore.GetAtIndex
// Returns store.ErrQuestionNotFound with the user's total when index is out
// of range. Callers validate non-negative indexes before calling.
func (s *PostgresQuestionStore) GetAtIndex(
	ctx context.Context,
	userID uuid.UUID,
	index int,
) (*domain.Question, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, err := s.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if index >= total {
		log.Debug("flashcard index out of range",
			slog.Int("index", index),
			slog.Int("total", total),
			slog.String("user_id", userID.String()))
		return nil, total, store.ErrQuestionNotFound
	}

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		OFFSET $2
		LIMIT 1
	`

	question, err := scanQuestion(s.db.QueryRowContext(ctx, query, userID, index))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted between the count and the fetch.
			return nil, total, store.ErrQuestionNotFound
		}
		log.Error("failed to get question at index",
			slog.String("error", err.Error()),
			slog.Int("index", index),
			slog.String("user_id", userID.String()))
		return nil, 0, MapError(err)
	}

	return question, total, nil
}

// CountByUser implements store.QuestionStore.CountByUser
func (s *PostgresQuestionStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM questions WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

// ListCandidates implements store.QuestionStore.ListCandidates
// A candidate is a question with no progress record or one whose
// is_correct flag is false; the join also surfaces the prior incorrect
// count (0 when no record exists).
func (s *PostgresQuestionStore) ListCandidates(
	ctx context.Context,
	userID uuid.UUID,
) ([]*store.CandidateQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT q.id, q.user_id, q.question_text, q.answer_a, q.answer_b, q.answer_c, q.answer_d,
		       q.correct_answer, q.created_at, q.updated_at,
		       COALESCE(p.incorrect_count, 0)
		FROM questions q
		LEFT JOIN user_progress p
		       ON p.question_id = q.id AND p.user_id = q.user_id
		WHERE q.user_id = $1
		  AND (p.user_id IS NULL OR p.is_correct = FALSE)
		ORDER BY q.created_at ASC, q.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list practice candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]*store.CandidateQuestion, 0)
	for rows.Next() {
		var q domain.Question
		var correct string
		var incorrectCount int
		err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.QuestionText,
			&q.AnswerA,
			&q.AnswerB,
			&q.AnswerC,
			&q.AnswerD,
			&correct,
			&q.CreatedAt,
			&q.UpdatedAt,
			&incorrectCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		q.CorrectAnswer = domain.AnswerLabel(correct)
		candidates = append(candidates, &store.CandidateQuestion{
			Question:       &q,
			IncorrectCount: incorrectCount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return candidates, nil
}

// Update implements store.QuestionStore.Update
// Returns store.ErrQuestionNotFound if the question does not exist.
func (s *PostgresQuestionStore) Update(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during update",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	query := `
		UPDATE questions
		SET question_text = $1, answer_a = $2, answer_b = $3, answer_c = $4,
		    answer_d = $5, correct_answer = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		question.QuestionText,
		question.AnswerA,
		question.AnswerB,
		question.AnswerC,
		question.AnswerD,
		string(question.CorrectAnswer),
		question.UpdatedAt,
		question.ID,
	)

	if err != nil {
		log.Error("failed to update question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "question")
}

// Delete implements store.QuestionStore.Delete
// Progress records are removed by ON DELETE CASCADE.
func (s *PostgresQuestionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "question"); err != nil {
		return err
	}

	log.Debug("question deleted", slog.String("question_id", id.String()))
	return nil
}

// WithTx implements store.QuestionStore.WithTx
func (s *PostgresQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &PostgresQuestionStore{
		db:     tx,
		logger: s.logger,
	}
}
