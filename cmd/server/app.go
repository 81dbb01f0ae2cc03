package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minhpham2409/quiz-app/internal/config"
	"github.com/minhpham2409/quiz-app/internal/platform/gemini"
	"github.com/minhpham2409/quiz-app/internal/platform/postgres"
	"github.com/minhpham2409/quiz-app/internal/service"
	"github.com/minhpham2409/quiz-app/internal/service/auth"
	"github.com/minhpham2409/quiz-app/internal/service/practice"
	"github.com/minhpham2409/quiz-app/internal/store"
	"github.com/minhpham2409/quiz-app/internal/task"
)

// application holds the shared application dependencies so wiring happens in
// one place and cleanup can release everything on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	questionStore store.QuestionStore
	progressStore store.ProgressStore
	taskStore     task.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        task.Generator
	questionService  service.QuestionService
	practiceService  practice.PracticeService

	taskRunner *task.TaskRunner
}

// newApplication wires up all application dependencies. The Gemini generator
// is optional: without an API key the generation endpoint reports 503 and
// everything else works normally.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.questionStore = postgres.NewPostgresQuestionStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	if cfg.LLM.GeminiAPIKey != "" {
		app.generator, err = gemini.NewGeminiGenerator(
			ctx,
			logger.With("component", "llm_generator"),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize question generator: %w", err)
		}
		logger.Info("question generator initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Warn("no Gemini API key configured, question generation disabled")
	}

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	app.questionService, err = service.NewQuestionService(
		app.questionStore,
		db,
		app.generator,
		app.taskRunner,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question service: %w", err)
	}

	app.practiceService = practice.NewPracticeService(
		app.questionStore,
		app.progressStore,
		logger,
	)

	// The factory rebuilds persisted generation tasks during recovery. The
	// question service doubles as the saver for generated questions.
	if app.generator != nil {
		saver, ok := app.questionService.(task.QuestionSaver)
		if !ok {
			return nil, fmt.Errorf("question service does not implement task.QuestionSaver")
		}
		app.taskRunner.SetTaskFactory(
			task.NewQuestionGenerationTaskFactory(app.generator, saver, logger))
	}

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	if err := app.taskRunner.Recover(); err != nil {
		logger.Error("failed to recover interrupted tasks", "error", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
