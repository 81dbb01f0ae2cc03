package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
)

// Generator defines the interface for generating quiz questions from a topic
// prompt. It serves as a boundary between the application core and external
// AI/LLM services.
type Generator interface {
	// GenerateQuestions creates multiple-choice questions about the given
	// topic for the given user. The count is a target; the model may return
	// fewer questions. Returned questions are validated domain objects that
	// have not yet been persisted.
	GenerateQuestions(ctx context.Context, topic string, count int, userID uuid.UUID) ([]*domain.Question, error)
}
