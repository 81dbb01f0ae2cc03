package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
)

// RegisterRequest is the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse is the successful response for register and login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest is the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse is the successful response for the token refresh
// endpoint. Both tokens are rotated.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// QuestionRequest is the payload for creating or replacing a question.
// Every field is required and the correct label must be one of A-D.
type QuestionRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	AnswerA  string `json:"a"        validate:"required,min=1"`
	AnswerB  string `json:"b"        validate:"required,min=1"`
	AnswerC  string `json:"c"        validate:"required,min=1"`
	AnswerD  string `json:"d"        validate:"required,min=1"`
	Correct  string `json:"correct"  validate:"required,oneof=A B C D"`
}

// BulkQuestionsRequest is the payload for the bulk-create endpoint.
type BulkQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// GenerateQuestionsRequest is the payload for the AI generation endpoint.
type GenerateQuestionsRequest struct {
	Topic string `json:"topic" validate:"required,min=1,max=500"`
	Count int    `json:"count" validate:"required,gte=1,lte=50"`
}

// QuestionResponse is the client-facing shape of a question, correct answer
// included. Only returned to the owning user.
type QuestionResponse struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	AnswerA   string    `json:"a"`
	AnswerB   string    `json:"b"`
	AnswerC   string    `json:"c"`
	AnswerD   string    `json:"d"`
	Correct   string    `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuestionResponse maps a domain question to its response shape.
func NewQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:        q.ID,
		Question:  q.QuestionText,
		AnswerA:   q.AnswerA,
		AnswerB:   q.AnswerB,
		AnswerC:   q.AnswerC,
		AnswerD:   q.AnswerD,
		Correct:   string(q.CorrectAnswer),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// NewQuestionResponses maps a slice of domain questions, never returning nil
// so empty lists serialize as [].
func NewQuestionResponses(questions []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}

// BulkQuestionsResponse is the successful response for the bulk-create
// endpoint.
type BulkQuestionsResponse struct {
	Message   string             `json:"message"`
	Count     int                `json:"count"`
	Questions []QuestionResponse `json:"questions"`
}

// GenerateQuestionsResponse acknowledges an accepted generation task.
type GenerateQuestionsResponse struct {
	TaskID  uuid.UUID `json:"task_id"`
	Message string    `json:"message"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SubmitAnswerRequest is the payload for the practice submit endpoint.
type SubmitAnswerRequest struct {
	QuestionID uuid.UUID `json:"questionId" validate:"required"`
	Answer     string    `json:"answer"     validate:"required,oneof=A B C D a b c d"`
}

// ResetProgressResponse confirms a reset and reports the user's question count.
type ResetProgressResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// FlashcardListResponse is the successful response for the full flashcard
// listing.
type FlashcardListResponse struct {
	Flashcards []QuestionResponse `json:"flashcards"`
	Total      int                `json:"total"`
}

// FlashcardResponse is the successful response for a single flashcard
// lookup by position.
type FlashcardResponse struct {
	Flashcard    QuestionResponse `json:"flashcard"`
	CurrentIndex int              `json:"currentIndex"`
	Total        int              `json:"total"`
}
