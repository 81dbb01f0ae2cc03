package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
)

// Common errors
var (
	ErrNilGenerator     = errors.New("generator cannot be nil")
	ErrNilQuestionSaver = errors.New("question saver cannot be nil")
	ErrNilLogger        = errors.New("logger cannot be nil")
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyTopic       = errors.New("topic cannot be empty")
	ErrInvalidCount     = errors.New("question count must be between 1 and 50")
	ErrUnknownTaskType  = errors.New("unknown task type")
)

// maxGeneratedQuestions caps a single generation request.
const maxGeneratedQuestions = 50

// Generator defines the interface for question generation services
type Generator interface {
	// GenerateQuestions creates multiple-choice questions about a topic
	GenerateQuestions(ctx context.Context, topic string, count int, userID uuid.UUID) ([]*domain.Question, error)
}

// QuestionSaver defines the interface for persisting generated questions
type QuestionSaver interface {
	// CreateQuestions creates multiple questions in a single transaction
	CreateQuestions(ctx context.Context, questions []*domain.Question) error
}

// questionGenerationPayload represents the serialized data stored in the task
type questionGenerationPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Topic  string    `json:"topic"`
	Count  int       `json:"count"`
}

// QuestionGenerationTask implements the Task interface for generating quiz
// questions about a topic with an LLM
type QuestionGenerationTask struct {
	id        uuid.UUID
	payload   questionGenerationPayload
	generator Generator
	saver     QuestionSaver
	logger    *slog.Logger
	status    TaskStatus
}

// NewQuestionGenerationTask creates a new question generation task
func NewQuestionGenerationTask(
	userID uuid.UUID,
	topic string,
	count int,
	generator Generator,
	saver QuestionSaver,
	logger *slog.Logger,
) (*QuestionGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if saver == nil {
		return nil, ErrNilQuestionSaver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if count < 1 || count > maxGeneratedQuestions {
		return nil, ErrInvalidCount
	}

	return &QuestionGenerationTask{
		id: uuid.New(),
		payload: questionGenerationPayload{
			UserID: userID,
			Topic:  topic,
			Count:  count,
		},
		generator: generator,
		saver:     saver,
		logger: logger.With(
			"task_type", TaskTypeQuestionGeneration,
			"user_id", userID,
		),
		status: TaskStatusPending,
	}, nil
}

// NewQuestionGenerationTaskFactory returns a TaskFactory that rebuilds
// question generation tasks from their persisted payloads during recovery.
func NewQuestionGenerationTaskFactory(
	generator Generator,
	saver QuestionSaver,
	logger *slog.Logger,
) TaskFactory {
	return func(taskType string, payload []byte) (Task, error) {
		if taskType != TaskTypeQuestionGeneration {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTaskType, taskType)
		}

		var p questionGenerationPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
		}

		return NewQuestionGenerationTask(p.UserID, p.Topic, p.Count, generator, saver, logger)
	}
}

// ID returns the task's unique identifier
func (t *QuestionGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *QuestionGenerationTask) Type() string {
	return TaskTypeQuestionGeneration
}

// Payload returns the task data as a byte slice
func (t *QuestionGenerationTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *QuestionGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute generates questions for the stored topic and persists them.
// Either all generated questions are saved or none are.
func (t *QuestionGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting question generation task",
		"topic", t.payload.Topic,
		"count", t.payload.Count)

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	questions, err := t.generator.GenerateQuestions(ctx, t.payload.Topic, t.payload.Count, t.payload.UserID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to generate questions", "error", err)
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	t.logger.Info("questions generated", "count", len(questions))

	if len(questions) == 0 {
		t.status = TaskStatusCompleted
		t.logger.Warn("generation completed but produced no questions")
		return nil
	}

	if err := t.saver.CreateQuestions(ctx, questions); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to save generated questions", "error", err)
		return fmt.Errorf("failed to save generated questions: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("question generation task completed", "saved", len(questions))
	return nil
}
