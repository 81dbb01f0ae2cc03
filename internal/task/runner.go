package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner manages background task processing
type TaskRunner struct {
	store      TaskStore
	factory    TaskFactory
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// SetTaskFactory sets the factory used to rebuild recovered tasks.
// Without a factory, recovered tasks are marked failed because their
// execution function cannot be reconstructed.
func (r *TaskRunner) SetTaskFactory(factory TaskFactory) {
	r.factory = factory
}

// Submit adds a new task to the queue. The task is persisted before it is
// enqueued, so a crash between the two steps is recovered on next start.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing tasks.
// Call Recover separately to requeue tasks left over from a previous run.
func (r *TaskRunner) Start() error {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// Recover loads unfinished tasks from the database and requeues them.
// Tasks interrupted mid-processing are reset to pending first.
func (r *TaskRunner) Recover() error {
	ctx := context.Background()

	pendingTasks, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processingTasks, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		"pending_count", len(pendingTasks),
		"processing_count", len(processingTasks))

	for _, t := range pendingTasks {
		r.requeue(ctx, t)
	}

	for _, t := range processingTasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			continue
		}
		r.requeue(ctx, t)
	}

	return nil
}

// requeue rebuilds a recovered task through the factory when one is set,
// then pushes it onto the in-memory queue.
func (r *TaskRunner) requeue(ctx context.Context, t Task) {
	if r.factory != nil {
		rebuilt, err := r.factory(t.Type(), t.Payload())
		if err != nil {
			r.logger.Error("failed to rebuild recovered task",
				"task_id", t.ID(),
				"task_type", t.Type(),
				"error", err)
			if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
				r.logger.Error("failed to mark unbuildable task as failed",
					"task_id", t.ID(),
					"error", updateErr)
			}
			return
		}
		t = &recoveredTask{id: t.ID(), inner: rebuilt}
	}

	select {
	case r.taskChan <- t:
	default:
		r.logger.Error("failed to requeue task, queue is full",
			"task_id", t.ID(),
			"task_type", t.Type())
	}
}

// recoveredTask wraps a factory-built task so status updates target the
// original persisted row instead of a freshly generated ID.
type recoveredTask struct {
	id    uuid.UUID
	inner Task
}

func (t *recoveredTask) ID() uuid.UUID                     { return t.id }
func (t *recoveredTask) Type() string                      { return t.inner.Type() }
func (t *recoveredTask) Payload() []byte                   { return t.inner.Payload() }
func (t *recoveredTask) Status() TaskStatus                { return t.inner.Status() }
func (t *recoveredTask) Execute(ctx context.Context) error { return t.inner.Execute(ctx) }

// worker processes tasks from the queue
func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case t, ok := <-r.taskChan:
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(t Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"task_id", t.ID(),
		"task_type", t.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing", "error", err)
		return
	}

	log.Info("processing task")

	err := t.Execute(ctx)
	if err != nil {
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update task status to failed", "error", updateErr)
		}
		r.errHandler(t, err)
		return
	}

	log.Info("task completed successfully")
	if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); updateErr != nil {
		log.Error("failed to update task status to completed", "error", updateErr)
	}
}

// stuckTaskMonitor periodically resets tasks that have been in processing
// state longer than StuckTaskAge and requeues them.
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuckTasks, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", "error", err)
				continue
			}

			if len(stuckTasks) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", "count", len(stuckTasks))

			for _, t := range stuckTasks {
				if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task status",
						"task_id", t.ID(),
						"task_type", t.Type(),
						"error", err)
					continue
				}
				r.requeue(ctx, t)
			}
		}
	}
}
