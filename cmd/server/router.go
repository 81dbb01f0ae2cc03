package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minhpham2409/quiz-app/internal/api"
	apiMiddleware "github.com/minhpham2409/quiz-app/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		tokenLifetime,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	questionHandler := api.NewQuestionHandler(app.questionService)
	practiceHandler := api.NewPracticeHandler(app.practiceService)
	flashcardHandler := api.NewFlashcardHandler(app.questionService)

	r.Route("/api", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Everything else requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/questions", questionHandler.List)
			r.Post("/questions", questionHandler.Create)
			r.Post("/questions/bulk", questionHandler.BulkCreate)
			r.Post("/questions/generate", questionHandler.Generate)
			r.Put("/questions/{id}", questionHandler.Update)
			r.Delete("/questions/{id}", questionHandler.Delete)

			r.Get("/practice/next", practiceHandler.Next)
			r.Post("/practice/submit", practiceHandler.Submit)
			r.Get("/practice/stats", practiceHandler.Stats)
			r.Post("/practice/reset", practiceHandler.Reset)

			r.Get("/flashcard/all", flashcardHandler.All)
			r.Get("/flashcard/{index}", flashcardHandler.AtIndex)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
