package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhpham2409/quiz-app/internal/domain"
	"github.com/minhpham2409/quiz-app/internal/store"
	"github.com/minhpham2409/quiz-app/internal/task"
)

// fakeQuestionStore implements store.QuestionStore in memory.
type fakeQuestionStore struct {
	questions map[uuid.UUID]*domain.Question
	createErr error
	updateErr error
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[uuid.UUID]*domain.Question)}
}

func (f *fakeQuestionStore) Create(ctx context.Context, q *domain.Question) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionStore) CreateMultiple(ctx context.Context, qs []*domain.Question) error {
	for _, q := range qs {
		if err := f.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeQuestionStore) GetForUser(ctx context.Context, userID, questionID uuid.UUID) (*domain.Question, error) {
	q, ok := f.questions[questionID]
	if !ok || q.UserID != userID {
		return nil, store.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Question, error) {
	var out []*domain.Question
	for _, q := range f.questions {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) GetAtIndex(ctx context.Context, userID uuid.UUID, index int) (*domain.Question, int, error) {
	owned, _ := f.ListByUser(ctx, userID)
	if index >= len(owned) {
		return nil, len(owned), store.ErrQuestionNotFound
	}
	return owned[index], len(owned), nil
}

func (f *fakeQuestionStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	owned, _ := f.ListByUser(ctx, userID)
	return len(owned), nil
}

func (f *fakeQuestionStore) ListCandidates(ctx context.Context, userID uuid.UUID) ([]*store.CandidateQuestion, error) {
	return nil, nil
}

func (f *fakeQuestionStore) Update(ctx context.Context, q *domain.Question) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.questions, id)
	return nil
}

func (f *fakeQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore { return f }

// fakeSubmitter records submitted tasks.
type fakeSubmitter struct {
	submitted []task.Task
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, t task.Task) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, t)
	return nil
}

// fakeGenerator satisfies task.Generator.
type fakeGenerator struct{}

func (f *fakeGenerator) GenerateQuestions(ctx context.Context, topic string, count int, userID uuid.UUID) ([]*domain.Question, error) {
	return nil, nil
}

func newTestQuestionService(t *testing.T, qs store.QuestionStore, gen task.Generator, sub TaskSubmitter) QuestionService {
	t.Helper()
	svc, err := NewQuestionService(qs, &sql.DB{}, gen, sub, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewQuestionService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewQuestionService(nil, &sql.DB{}, nil, nil, slog.Default())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewQuestionService(newFakeQuestionStore(), nil, nil, nil, slog.Default())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateQuestion(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates valid question", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		svc := newTestQuestionService(t, qs, nil, nil)

		q, err := svc.CreateQuestion(context.Background(), userID,
			"What is Go?", "a language", "a game", "a fruit", "a city", domain.AnswerA)
		require.NoError(t, err)
		assert.Equal(t, userID, q.UserID)
		assert.Contains(t, qs.questions, q.ID)
	})

	t.Run("rejects invalid question", func(t *testing.T) {
		t.Parallel()
		svc := newTestQuestionService(t, newFakeQuestionStore(), nil, nil)

		_, err := svc.CreateQuestion(context.Background(), userID,
			"", "a", "b", "c", "d", domain.AnswerA)
		assert.ErrorIs(t, err, domain.ErrQuestionTextEmpty)
	})

	t.Run("wraps store failure", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		qs.createErr = errors.New("db down")
		svc := newTestQuestionService(t, qs, nil, nil)

		_, err := svc.CreateQuestion(context.Background(), userID,
			"Q?", "a", "b", "c", "d", domain.AnswerA)
		var svcErr *QuestionServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestBulkCreate_ValidatesBeforeInsert(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	qs := newFakeQuestionStore()
	svc := newTestQuestionService(t, qs, nil, nil)

	inputs := []QuestionInput{
		{Text: "Q1", AnswerA: "a", AnswerB: "b", AnswerC: "c", AnswerD: "d", Correct: domain.AnswerA},
		{Text: "", AnswerA: "a", AnswerB: "b", AnswerC: "c", AnswerD: "d", Correct: domain.AnswerA},
	}

	_, err := svc.BulkCreate(context.Background(), userID, inputs)
	assert.ErrorIs(t, err, domain.ErrQuestionTextEmpty)
	assert.Empty(t, qs.questions)
}

func TestGetQuestionAtIndex(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("negative index", func(t *testing.T) {
		t.Parallel()
		svc := newTestQuestionService(t, newFakeQuestionStore(), nil, nil)

		_, _, err := svc.GetQuestionAtIndex(context.Background(), userID, -1)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	})

	t.Run("index out of range reports total", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(userID, "Q?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		_, total, err := svc.GetQuestionAtIndex(context.Background(), userID, 5)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, 1, total)
	})

	t.Run("valid index", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(userID, "Q?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		got, total, err := svc.GetQuestionAtIndex(context.Background(), userID, 0)
		require.NoError(t, err)
		assert.Equal(t, q.ID, got.ID)
		assert.Equal(t, 1, total)
	})
}

func TestUpdateQuestion(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	otherUser := uuid.New()

	t.Run("updates owned question", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(userID, "Old?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		updated, err := svc.UpdateQuestion(context.Background(), userID, q.ID,
			"New?", "w", "x", "y", "z", domain.AnswerD)
		require.NoError(t, err)
		assert.Equal(t, "New?", updated.QuestionText)
		assert.Equal(t, domain.AnswerD, updated.CorrectAnswer)
		assert.Equal(t, q.ID, updated.ID)
	})

	t.Run("not owned looks like not found", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(otherUser, "Q?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		_, err = svc.UpdateQuestion(context.Background(), userID, q.ID,
			"New?", "w", "x", "y", "z", domain.AnswerD)
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)
	})

	t.Run("invalid replacement leaves question unchanged", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(userID, "Old?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		_, err = svc.UpdateQuestion(context.Background(), userID, q.ID,
			"New?", "w", "x", "y", "z", domain.AnswerLabel("E"))
		assert.ErrorIs(t, err, domain.ErrInvalidCorrectAnswer)
		assert.Equal(t, "Old?", qs.questions[q.ID].QuestionText)
	})
}

func TestDeleteQuestion(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("deletes owned question", func(t *testing.T) {
		t.Parallel()
		qs := newFakeQuestionStore()
		q, err := domain.NewQuestion(userID, "Q?", "a", "b", "c", "d", domain.AnswerA)
		require.NoError(t, err)
		qs.questions[q.ID] = q

		svc := newTestQuestionService(t, qs, nil, nil)

		require.NoError(t, svc.DeleteQuestion(context.Background(), userID, q.ID))
		assert.NotContains(t, qs.questions, q.ID)
	})

	t.Run("unknown question", func(t *testing.T) {
		t.Parallel()
		svc := newTestQuestionService(t, newFakeQuestionStore(), nil, nil)

		err := svc.DeleteQuestion(context.Background(), userID, uuid.New())
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)
	})
}

func TestEnqueueGeneration(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("disabled without generator", func(t *testing.T) {
		t.Parallel()
		svc := newTestQuestionService(t, newFakeQuestionStore(), nil, &fakeSubmitter{})

		_, err := svc.EnqueueGeneration(context.Background(), userID, "go", 5)
		assert.ErrorIs(t, err, ErrGenerationDisabled)
	})

	t.Run("submits task", func(t *testing.T) {
		t.Parallel()
		sub := &fakeSubmitter{}
		svc := newTestQuestionService(t, newFakeQuestionStore(), &fakeGenerator{}, sub)

		taskID, err := svc.EnqueueGeneration(context.Background(), userID, "go", 5)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, taskID)
		require.Len(t, sub.submitted, 1)
		assert.Equal(t, task.TaskTypeQuestionGeneration, sub.submitted[0].Type())
	})

	t.Run("rejects empty topic", func(t *testing.T) {
		t.Parallel()
		svc := newTestQuestionService(t, newFakeQuestionStore(), &fakeGenerator{}, &fakeSubmitter{})

		_, err := svc.EnqueueGeneration(context.Background(), userID, "", 5)
		assert.ErrorIs(t, err, task.ErrEmptyTopic)
	})

	t.Run("submit failure is wrapped", func(t *testing.T) {
		t.Parallel()
		sub := &fakeSubmitter{err: errors.New("queue full")}
		svc := newTestQuestionService(t, newFakeQuestionStore(), &fakeGenerator{}, sub)

		_, err := svc.EnqueueGeneration(context.Background(), userID, "go", 5)
		var svcErr *QuestionServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}
