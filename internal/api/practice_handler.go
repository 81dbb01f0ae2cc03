package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/minhpham2409/quiz-app/internal/api/shared"
	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/service/practice"
)

// PracticeHandler handles the practice loop: next question selection,
// answer submission, statistics and progress reset.
type PracticeHandler struct {
	practiceService practice.PracticeService
	validator       *validator.Validate
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(practiceService practice.PracticeService) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
		validator:       validator.New(),
	}
}

// nextQuestionResponse wraps the next practice question. Question is null
// when everything has been answered correctly.
type nextQuestionResponse struct {
	Question *practice.NextQuestion `json:"question"`
	Message  string                 `json:"message,omitempty"`
}

// Next handles GET /api/practice/next. An exhausted catalog is not an
// error: the response carries a null question and a congratulation message.
func (h *PracticeHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	question, err := h.practiceService.SelectNext(r.Context(), userID)
	if err != nil {
		if errors.Is(err, practice.ErrNoQuestionsLeft) {
			shared.RespondWithJSON(w, r, http.StatusOK, nextQuestionResponse{
				Question: nil,
				Message:  "All questions answered correctly",
			})
			return
		}
		HandleAPIError(w, r, err, "Failed to select next question")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nextQuestionResponse{Question: question})
}

// Submit handles POST /api/practice/submit.
func (h *PracticeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	answer := domain.AnswerLabel(strings.ToUpper(req.Answer))
	result, err := h.practiceService.SubmitAnswer(r.Context(), userID, req.QuestionID, answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Stats handles GET /api/practice/stats.
func (h *PracticeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.practiceService.GetStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute practice statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Reset handles POST /api/practice/reset. Resetting is idempotent.
func (h *PracticeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	total, err := h.practiceService.ResetProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ResetProgressResponse{
		Message: "Progress reset",
		Total:   total,
	})
}
