package service

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
	"github.com/minhpham2409/quiz-app/internal/task"
)

// QuestionServiceError is a custom error type for question service errors.
type QuestionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for QuestionServiceError.
func (e *QuestionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("question service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *QuestionServiceError) Unwrap() error {
	return e.Err
}

// NewQuestionServiceError creates a new QuestionServiceError.
func NewQuestionServiceError(operation, message string, err error) *QuestionServiceError {
	return &QuestionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskSubmitter enqueues background tasks. Satisfied by *task.TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// QuestionService provides catalog and flashcard operations over a user's
// questions.
type QuestionService interface {
	// CreateQuestion creates a single question owned by userID.
	CreateQuestion(
		ctx context.Context,
		userID uuid.UUID,
		text, answerA, answerB, answerC, answerD string,
		correct domain.AnswerLabel,
	) (*domain.Question, error)

	// CreateQuestions persists a batch of already-built questions in a single
	// transaction. Either every question is saved or none are.
	CreateQuestions(ctx context.Context, questions []*domain.Question) error

	// BulkCreate validates and creates a batch of questions owned by userID
	// in a single transaction. Every element is validated before any insert.
	BulkCreate(ctx context.Context, userID uuid.UUID, inputs []QuestionInput) ([]*domain.Question, error)

	// ListQuestions returns all of the user's questions ordered by creation
	// time ascending.
	ListQuestions(ctx context.Context, userID uuid.UUID) ([]*domain.Question, error)

	// GetQuestionAtIndex returns the question at the given 0-based position
	// in the creation-time ordering, along with the user's total question
	// count. Returns ErrInvalidIndex for negative indexes and
	// ErrIndexOutOfRange when index >= total.
	GetQuestionAtIndex(ctx context.Context, userID uuid.UUID, index int) (*domain.Question, int, error)

	// UpdateQuestion replaces the content of an owned question.
	// Returns store.ErrQuestionNotFound if the question does not exist or is
	// owned by another user.
	UpdateQuestion(
		ctx context.Context,
		userID, questionID uuid.UUID,
		text, answerA, answerB, answerC, answerD string,
		correct domain.AnswerLabel,
	) (*domain.Question, error)

	// DeleteQuestion removes an owned question. Progress records cascade.
	DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error

	// EnqueueGeneration schedules a background task that generates questions
	// about the topic and adds them to the user's catalog. Returns the task
	// ID, or ErrGenerationDisabled when no generator is configured.
	EnqueueGeneration(ctx context.Context, userID uuid.UUID, topic string, count int) (uuid.UUID, error)
}

// QuestionInput carries the raw fields for one question in a bulk create.
type QuestionInput struct {
	Text    string
	AnswerA string
	AnswerB string
	AnswerC string
	AnswerD string
	Correct domain.AnswerLabel
}

// questionServiceImpl implements the QuestionService interface
type questionServiceImpl struct {
	questionStore store.QuestionStore
	db            *sql.DB
	generator     task.Generator
	submitter     TaskSubmitter
	logger        *slog.Logger
}

// Ensure the service can persist generated questions for background tasks.
var _ task.QuestionSaver = (*questionServiceImpl)(nil)

// NewQuestionService creates a new QuestionService.
// generator and submitter may be nil, in which case EnqueueGeneration
// returns ErrGenerationDisabled.
func NewQuestionService(
	questionStore store.QuestionStore,
	db *sql.DB,
	generator task.Generator,
	submitter TaskSubmitter,
	logger *slog.Logger,
) (QuestionService, error) {
	if questionStore == nil {
		return nil, domain.NewValidationError("questionStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &questionServiceImpl{
		questionStore: questionStore,
		db:            db,
		generator:     generator,
		submitter:     submitter,
		logger:        logger.With(slog.String("component", "question_service")),
	}, nil
}

// CreateQuestion implements QuestionService.CreateQuestion
func (s *questionServiceImpl) CreateQuestion(
	ctx context.Context,
	userID uuid.UUID,
	text, answerA, answerB, answerC, answerD string,
	correct domain.AnswerLabel,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	question, err := domain.NewQuestion(userID, text, answerA, answerB, answerC, answerD, correct)
	if err != nil {
		return nil, err
	}

	if err := s.questionStore.Create(ctx, question); err != nil {
		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewQuestionServiceError("create_question", "failed to save question", err)
	}

	log.Debug("question created",
		slog.String("question_id", question.ID.String()),
		slog.String("user_id", userID.String()))
	return question, nil
}

// CreateQuestions implements QuestionService.CreateQuestions
// It also satisfies task.QuestionSaver so generation tasks can persist their
// output through the same transactional path.
func (s *questionServiceImpl) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(questions) == 0 {
		log.Debug("no questions to create")
		return nil
	}

	log.Debug("creating questions in transaction",
		slog.Int("question_count", len(questions)))

	return store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.questionStore.WithTx(tx)

			if err := txStore.CreateMultiple(ctx, questions); err != nil {
				log.Error("failed to create questions in transaction",
					slog.String("error", err.Error()))
				return NewQuestionServiceError("create_questions", "failed to save questions", err)
			}

			log.Info("created questions in transaction",
				slog.Int("question_count", len(questions)))
			return nil
		},
	)
}

// BulkCreate implements QuestionService.BulkCreate
// The whole batch is validated up front; a single invalid element rejects
// the request before anything is written.
func (s *questionServiceImpl) BulkCreate(
	ctx context.Context,
	userID uuid.UUID,
	inputs []QuestionInput,
) ([]*domain.Question, error) {
	questions := make([]*domain.Question, 0, len(inputs))
	for i, in := range inputs {
		question, err := domain.NewQuestion(
			userID, in.Text, in.AnswerA, in.AnswerB, in.AnswerC, in.AnswerD, in.Correct,
		)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, question)
	}

	if err := s.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}

	return questions, nil
}

// ListQuestions implements QuestionService.ListQuestions
func (s *questionServiceImpl) ListQuestions(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	questions, err := s.questionStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list questions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewQuestionServiceError("list_questions", "failed to list questions", err)
	}

	return questions, nil
}

// GetQuestionAtIndex implements QuestionService.GetQuestionAtIndex
func (s *questionServiceImpl) GetQuestionAtIndex(
	ctx context.Context,
	userID uuid.UUID,
	index int,
) (*domain.Question, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if index < 0 {
		return nil, 0, ErrInvalidIndex
	}

	question, total, err := s.questionStore.GetAtIndex(ctx, userID, index)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, total, ErrIndexOutOfRange
		}
		log.Error("failed to get question at index",
			slog.String("error", err.Error()),
			slog.Int("index", index),
			slog.String("user_id", userID.String()))
		return nil, 0, NewQuestionServiceError("get_at_index", "failed to get question", err)
	}

	return question, total, nil
}

// UpdateQuestion implements QuestionService.UpdateQuestion
// Ownership is checked by fetching through the owner-scoped path before any
// write.
func (s *questionServiceImpl) UpdateQuestion(
	ctx context.Context,
	userID, questionID uuid.UUID,
	text, answerA, answerB, answerC, answerD string,
	correct domain.AnswerLabel,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	question, err := s.questionStore.GetForUser(ctx, userID, questionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to load question for update",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return nil, NewQuestionServiceError("update_question", "failed to load question", err)
	}

	if err := question.Replace(text, answerA, answerB, answerC, answerD, correct); err != nil {
		return nil, err
	}

	if err := s.questionStore.Update(ctx, question); err != nil {
		log.Error("failed to update question",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return nil, NewQuestionServiceError("update_question", "failed to save question", err)
	}

	log.Debug("question updated",
		slog.String("question_id", questionID.String()),
		slog.String("user_id", userID.String()))
	return question, nil
}

// DeleteQuestion implements QuestionService.DeleteQuestion
func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.questionStore.GetForUser(ctx, userID, questionID); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to load question for delete",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return NewQuestionServiceError("delete_question", "failed to load question", err)
	}

	if err := s.questionStore.Delete(ctx, questionID); err != nil {
		log.Error("failed to delete question",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return NewQuestionServiceError("delete_question", "failed to delete question", err)
	}

	log.Debug("question deleted",
		slog.String("question_id", questionID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// EnqueueGeneration implements QuestionService.EnqueueGeneration
func (s *questionServiceImpl) EnqueueGeneration(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
	count int,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil || s.submitter == nil {
		return uuid.Nil, ErrGenerationDisabled
	}

	genTask, err := task.NewQuestionGenerationTask(userID, topic, count, s.generator, s, s.logger)
	if err != nil {
		if errors.Is(err, task.ErrEmptyTopic) || errors.Is(err, task.ErrInvalidCount) {
			return uuid.Nil, err
		}
		return uuid.Nil, NewQuestionServiceError("enqueue_generation", "failed to build task", err)
	}

	if err := s.submitter.Submit(ctx, genTask); err != nil {
		log.Error("failed to enqueue generation task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return uuid.Nil, NewQuestionServiceError("enqueue_generation", "failed to enqueue task", err)
	}

	log.Info("generation task enqueued",
		slog.String("task_id", genTask.ID().String()),
		slog.String("user_id", userID.String()),
		slog.String("topic", topic),
		slog.Int("count", count))

	return genTask.ID(), nil
}
