package task

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhpham2409/quiz-app/internal/domain"
)

// mockTaskStore records calls in memory.
type mockTaskStore struct {
	mu         sync.Mutex
	saved      []Task
	statuses   map[uuid.UUID]TaskStatus
	pending    []Task
	processing []Task
	saveErr    error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{statuses: make(map[uuid.UUID]TaskStatus)}
}

func (m *mockTaskStore) SaveTask(ctx context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t)
	m.statuses[t.ID()] = TaskStatusPending
	return nil
}

func (m *mockTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[taskID] = status
	return nil
}

func (m *mockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, nil
}

func (m *mockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processing, nil
}

func (m *mockTaskStore) statusOf(id uuid.UUID) TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

// fakeTask executes a caller-provided function and signals completion.
type fakeTask struct {
	id      uuid.UUID
	execErr error
	done    chan struct{}
}

func newFakeTask(execErr error) *fakeTask {
	return &fakeTask{
		id:      uuid.New(),
		execErr: execErr,
		done:    make(chan struct{}),
	}
}

func (t *fakeTask) ID() uuid.UUID      { return t.id }
func (t *fakeTask) Type() string       { return "fake" }
func (t *fakeTask) Payload() []byte    { return []byte(`{}`) }
func (t *fakeTask) Status() TaskStatus { return TaskStatusPending }
func (t *fakeTask) Execute(ctx context.Context) error {
	defer close(t.done)
	return t.execErr
}

func (t *fakeTask) waitDone(tb testing.TB) {
	tb.Helper()
	select {
	case <-t.done:
	case <-time.After(5 * time.Second):
		tb.Fatal("task was not executed in time")
	}
}

func TestTaskRunner_SubmitPersistsBeforeEnqueue(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 1, QueueSize: 2}, slog.Default())

	ft := newFakeTask(nil)
	require.NoError(t, runner.Submit(context.Background(), ft))
	assert.Len(t, store.saved, 1)

	store.saveErr = errors.New("db down")
	assert.Error(t, runner.Submit(context.Background(), newFakeTask(nil)))
	assert.Len(t, store.saved, 1)
}

func TestTaskRunner_SubmitRejectsWhenQueueFull(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	// Workers never started, so the queue fills up.
	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, slog.Default())

	require.NoError(t, runner.Submit(context.Background(), newFakeTask(nil)))
	assert.Error(t, runner.Submit(context.Background(), newFakeTask(nil)))
}

func TestTaskRunner_ExecutesSubmittedTask(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	runner := NewTaskRunner(store, TaskRunnerConfig{
		WorkerCount:            1,
		QueueSize:              4,
		StuckTaskCheckInterval: time.Hour,
	}, slog.Default())

	require.NoError(t, runner.Start())
	defer runner.Stop()

	ft := newFakeTask(nil)
	require.NoError(t, runner.Submit(context.Background(), ft))
	ft.waitDone(t)

	assert.Eventually(t, func() bool {
		return store.statusOf(ft.id) == TaskStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTaskRunner_MarksFailedTask(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	runner := NewTaskRunner(store, TaskRunnerConfig{
		WorkerCount:            1,
		QueueSize:              4,
		StuckTaskCheckInterval: time.Hour,
	}, slog.Default())

	var handled sync.WaitGroup
	handled.Add(1)
	runner.SetErrorHandler(func(task Task, err error) {
		handled.Done()
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	ft := newFakeTask(errors.New("boom"))
	require.NoError(t, runner.Submit(context.Background(), ft))
	ft.waitDone(t)
	handled.Wait()

	assert.Eventually(t, func() bool {
		return store.statusOf(ft.id) == TaskStatusFailed
	}, 5*time.Second, 10*time.Millisecond)
}

func TestTaskRunner_RecoverResetsProcessingTasks(t *testing.T) {
	t.Parallel()

	store := newMockTaskStore()
	stuck := newFakeTask(nil)
	store.processing = []Task{stuck}
	store.statuses[stuck.id] = TaskStatusProcessing

	runner := NewTaskRunner(store, TaskRunnerConfig{WorkerCount: 1, QueueSize: 4}, slog.Default())
	require.NoError(t, runner.Recover())

	assert.Equal(t, TaskStatusPending, store.statusOf(stuck.id))
}

func TestQuestionGenerationTask_Validation(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{}
	saver := &stubSaver{}
	logger := slog.Default()
	userID := uuid.New()

	tests := []struct {
		name    string
		build   func() (*QuestionGenerationTask, error)
		wantErr error
	}{
		{
			name: "nil generator",
			build: func() (*QuestionGenerationTask, error) {
				return NewQuestionGenerationTask(userID, "go", 5, nil, saver, logger)
			},
			wantErr: ErrNilGenerator,
		},
		{
			name: "nil saver",
			build: func() (*QuestionGenerationTask, error) {
				return NewQuestionGenerationTask(userID, "go", 5, gen, nil, logger)
			},
			wantErr: ErrNilQuestionSaver,
		},
		{
			name: "empty user",
			build: func() (*QuestionGenerationTask, error) {
				return NewQuestionGenerationTask(uuid.Nil, "go", 5, gen, saver, logger)
			},
			wantErr: ErrEmptyUserID,
		},
		{
			name: "empty topic",
			build: func() (*QuestionGenerationTask, error) {
				return NewQuestionGenerationTask(userID, "", 5, gen, saver, logger)
			},
			wantErr: ErrEmptyTopic,
		},
		{
			name: "count too large",
			build: func() (*QuestionGenerationTask, error) {
				return NewQuestionGenerationTask(userID, "go", 51, gen, saver, logger)
			},
			wantErr: ErrInvalidCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type stubGenerator struct {
	questions []*domain.Question
	err       error
}

func (g *stubGenerator) GenerateQuestions(ctx context.Context, topic string, count int, userID uuid.UUID) ([]*domain.Question, error) {
	return g.questions, g.err
}

type stubSaver struct {
	saved []*domain.Question
	err   error
}

func (s *stubSaver) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, questions...)
	return nil
}

func TestQuestionGenerationTask_Execute(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	question, err := domain.NewQuestion(userID, "Q?", "a", "b", "c", "d", domain.AnswerA)
	require.NoError(t, err)

	t.Run("generates and saves", func(t *testing.T) {
		t.Parallel()
		saver := &stubSaver{}
		gen := &stubGenerator{questions: []*domain.Question{question}}

		task, err := NewQuestionGenerationTask(userID, "go", 1, gen, saver, slog.Default())
		require.NoError(t, err)

		require.NoError(t, task.Execute(context.Background()))
		assert.Len(t, saver.saved, 1)
		assert.Equal(t, TaskStatusCompleted, task.Status())
	})

	t.Run("generation failure marks task failed", func(t *testing.T) {
		t.Parallel()
		saver := &stubSaver{}
		gen := &stubGenerator{err: errors.New("model unavailable")}

		task, err := NewQuestionGenerationTask(userID, "go", 1, gen, saver, slog.Default())
		require.NoError(t, err)

		assert.Error(t, task.Execute(context.Background()))
		assert.Empty(t, saver.saved)
		assert.Equal(t, TaskStatusFailed, task.Status())
	})

	t.Run("save failure marks task failed", func(t *testing.T) {
		t.Parallel()
		saver := &stubSaver{err: errors.New("db down")}
		gen := &stubGenerator{questions: []*domain.Question{question}}

		task, err := NewQuestionGenerationTask(userID, "go", 1, gen, saver, slog.Default())
		require.NoError(t, err)

		assert.Error(t, task.Execute(context.Background()))
		assert.Equal(t, TaskStatusFailed, task.Status())
	})
}

func TestQuestionGenerationTaskFactory(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{}
	saver := &stubSaver{}
	factory := NewQuestionGenerationTaskFactory(gen, saver, slog.Default())

	t.Run("rebuilds from payload", func(t *testing.T) {
		t.Parallel()
		payload, err := json.Marshal(questionGenerationPayload{
			UserID: uuid.New(),
			Topic:  "networking",
			Count:  3,
		})
		require.NoError(t, err)

		rebuilt, err := factory(TaskTypeQuestionGeneration, payload)
		require.NoError(t, err)
		assert.Equal(t, TaskTypeQuestionGeneration, rebuilt.Type())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := factory("unknown", []byte(`{}`))
		assert.ErrorIs(t, err, ErrUnknownTaskType)
	})
}
