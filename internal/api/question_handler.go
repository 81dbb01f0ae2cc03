package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/minhpham2409/quiz-app/internal/api/shared"
	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/service"
)

// QuestionHandler handles CRUD, bulk-create and AI generation for the
// question catalog. Every operation is scoped to the authenticated user.
type QuestionHandler struct {
	questionService service.QuestionService
	validator       *validator.Validate
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		validator:       validator.New(),
	}
}

// List handles GET /api/questions.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questions, err := h.questionService.ListQuestions(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list questions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewQuestionResponses(questions))
}

// Create handles POST /api/questions.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req QuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	question, err := h.questionService.CreateQuestion(
		r.Context(), userID,
		req.Question, req.AnswerA, req.AnswerB, req.AnswerC, req.AnswerD,
		domain.AnswerLabel(req.Correct),
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewQuestionResponse(question))
}

// BulkCreate handles POST /api/questions/bulk. The batch is all-or-nothing;
// one invalid element rejects the whole request and nothing is written.
func (h *QuestionHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BulkQuestionsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	inputs := make([]service.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		inputs = append(inputs, service.QuestionInput{
			Text:    q.Question,
			AnswerA: q.AnswerA,
			AnswerB: q.AnswerB,
			AnswerC: q.AnswerC,
			AnswerD: q.AnswerD,
			Correct: domain.AnswerLabel(q.Correct),
		})
	}

	questions, err := h.questionService.BulkCreate(r.Context(), userID, inputs)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, BulkQuestionsResponse{
		Message:   "Questions created",
		Count:     len(questions),
		Questions: NewQuestionResponses(questions),
	})
}

// Generate handles POST /api/questions/generate. Generation runs in the
// background; the response only acknowledges the task.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateQuestionsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	taskID, err := h.questionService.EnqueueGeneration(r.Context(), userID, req.Topic, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateQuestionsResponse{
		TaskID:  taskID,
		Message: "Question generation started",
	})
}

// Update handles PUT /api/questions/{id}.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req QuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	question, err := h.questionService.UpdateQuestion(
		r.Context(), userID, questionID,
		req.Question, req.AnswerA, req.AnswerB, req.AnswerC, req.AnswerD,
		domain.AnswerLabel(req.Correct),
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewQuestionResponse(question))
}

// Delete handles DELETE /api/questions/{id}.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.questionService.DeleteQuestion(r.Context(), userID, questionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Question deleted"})
}
