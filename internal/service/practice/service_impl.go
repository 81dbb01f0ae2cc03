package practice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/platform/logger"
	"github.com/minhpham2409/quiz-app/internal/store"
)

// Verify interface compliance at compile time
var _ PracticeService = (*practiceServiceImpl)(nil)

// practiceServiceImpl implements the PracticeService interface.
type practiceServiceImpl struct {
	questionStore store.QuestionStore
	progressStore store.ProgressStore
	rng           *rand.Rand
	timeFunc      func() time.Time
	logger        *slog.Logger
}

// Option configures a practice service.
type Option func(*practiceServiceImpl)

// WithRand sets the random source used for question selection.
// Tests use this to make selection deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *practiceServiceImpl) {
		s.rng = rng
	}
}

// WithTimeFunc sets the clock used to stamp attempts.
func WithTimeFunc(timeFunc func() time.Time) Option {
	return func(s *practiceServiceImpl) {
		s.timeFunc = timeFunc
	}
}

// NewPracticeService creates a new PracticeService implementation.
func NewPracticeService(
	questionStore store.QuestionStore,
	progressStore store.ProgressStore,
	logger *slog.Logger,
	opts ...Option,
) PracticeService {
	if questionStore == nil {
		panic("questionStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &practiceServiceImpl{
		questionStore: questionStore,
		progressStore: progressStore,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		timeFunc:      time.Now,
		logger:        logger.With(slog.String("component", "practice_service")),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectNext implements PracticeService.SelectNext.
// Selection is uniform over the candidate set; the incorrect count is
// surfaced but does not weight the pick.
func (s *practiceServiceImpl) SelectNext(
	ctx context.Context,
	userID uuid.UUID,
) (*NextQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidates, err := s.questionStore.ListCandidates(ctx, userID)
	if err != nil {
		log.Error("failed to list practice candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, &ServiceError{
			Operation: "select_next",
			Message:   "failed to list candidate questions",
			Err:       err,
		}
	}

	if len(candidates) == 0 {
		log.Debug("no practice candidates remaining",
			slog.String("user_id", userID.String()))
		return nil, ErrNoQuestionsLeft
	}

	picked := candidates[s.rng.Intn(len(candidates))]

	log.Debug("selected practice question",
		slog.String("user_id", userID.String()),
		slog.String("question_id", picked.Question.ID.String()),
		slog.Int("candidate_count", len(candidates)))

	return &NextQuestion{
		ID:             picked.Question.ID,
		QuestionText:   picked.Question.QuestionText,
		AnswerA:        picked.Question.AnswerA,
		AnswerB:        picked.Question.AnswerB,
		AnswerC:        picked.Question.AnswerC,
		AnswerD:        picked.Question.AnswerD,
		IncorrectCount: picked.IncorrectCount,
	}, nil
}

// SubmitAnswer implements PracticeService.SubmitAnswer.
// The progress write is a single atomic upsert in the store layer, so two
// concurrent submissions for the same pair cannot lose an increment.
func (s *practiceServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, questionID uuid.UUID,
	answer domain.AnswerLabel,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !answer.IsValid() {
		log.Warn("invalid answer label",
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()),
			slog.String("answer", string(answer)))
		return nil, ErrInvalidAnswer
	}

	question, err := s.questionStore.GetForUser(ctx, userID, questionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("question not found for answer submission",
				slog.String("user_id", userID.String()),
				slog.String("question_id", questionID.String()))
			return nil, ErrQuestionNotFound
		}
		log.Error("failed to load question for answer submission",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return nil, &ServiceError{
			Operation: "submit_answer",
			Message:   "failed to load question",
			Err:       err,
		}
	}

	isCorrect := answer == question.CorrectAnswer

	progress, err := s.progressStore.Upsert(ctx, userID, questionID, isCorrect, s.timeFunc().UTC())
	if err != nil {
		log.Error("failed to record answer",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, &ServiceError{
			Operation: "submit_answer",
			Message:   "failed to record answer",
			Err:       err,
		}
	}

	explanation := "Correct!"
	if !isCorrect {
		explanation = fmt.Sprintf("The correct answer is %s", question.CorrectAnswer)
	}

	log.Info("answer recorded",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Bool("is_correct", isCorrect),
		slog.Int("incorrect_count", progress.IncorrectCount))

	return &AnswerResult{
		IsCorrect:      isCorrect,
		CorrectAnswer:  question.CorrectAnswer,
		IncorrectCount: progress.IncorrectCount,
		Explanation:    explanation,
	}, nil
}

// ResetProgress implements PracticeService.ResetProgress.
// The returned total is the user's question count, not the number of
// progress rows touched, so clients can show "0 of N answered" directly.
func (s *practiceServiceImpl) ResetProgress(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.progressStore.ResetForUser(ctx, userID); err != nil {
		log.Error("failed to reset progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, &ServiceError{
			Operation: "reset_progress",
			Message:   "failed to reset progress",
			Err:       err,
		}
	}

	total, err := s.questionStore.CountByUser(ctx, userID)
	if err != nil {
		log.Error("failed to count questions after reset",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, &ServiceError{
			Operation: "reset_progress",
			Message:   "failed to count questions",
			Err:       err,
		}
	}

	return total, nil
}

// GetStats implements PracticeService.GetStats.
func (s *practiceServiceImpl) GetStats(
	ctx context.Context,
	userID uuid.UUID,
) (*store.PracticeStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats, err := s.progressStore.GetStats(ctx, userID)
	if err != nil {
		log.Error("failed to compute practice stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, &ServiceError{
			Operation: "get_stats",
			Message:   "failed to compute stats",
			Err:       err,
		}
	}

	return stats, nil
}
