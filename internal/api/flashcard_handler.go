package api

import (
	"net/http"

	"github.com/minhpham2409/quiz-app/internal/api/shared"
	"github.com/minhpham2409/quiz-app/internal/service"
)

// FlashcardHandler serves questions for sequential flashcard review, ordered
// by creation time.
type FlashcardHandler struct {
	questionService service.QuestionService
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(questionService service.QuestionService) *FlashcardHandler {
	return &FlashcardHandler{questionService: questionService}
}

// All handles GET /api/flashcard/all.
func (h *FlashcardHandler) All(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questions, err := h.questionService.ListQuestions(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Flashcards: NewQuestionResponses(questions),
		Total:      len(questions),
	})
}

// AtIndex handles GET /api/flashcard/{index} with a 0-based position.
func (h *FlashcardHandler) AtIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	index, err := getPathInt(r, "index")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	question, total, err := h.questionService.GetQuestionAtIndex(r.Context(), userID, index)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardResponse{
		Flashcard:    NewQuestionResponse(question),
		CurrentIndex: index,
		Total:        total,
	})
}
