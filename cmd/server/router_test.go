package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhpham2409/quiz-app/internal/config"
)

func newRouterTestApp() *application {
	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
			Auth:   config.AuthConfig{TokenLifetimeMinutes: 15},
		},
		logger: slog.Default(),
	}
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	router := newRouterTestApp().setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newRouterTestApp().setupRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/questions"},
		{http.MethodPost, "/api/questions"},
		{http.MethodPost, "/api/questions/bulk"},
		{http.MethodPost, "/api/questions/generate"},
		{http.MethodGet, "/api/practice/next"},
		{http.MethodPost, "/api/practice/submit"},
		{http.MethodGet, "/api/practice/stats"},
		{http.MethodPost, "/api/practice/reset"},
		{http.MethodGet, "/api/flashcard/all"},
		{http.MethodGet, "/api/flashcard/0"},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code,
			"%s %s should require authentication", route.method, route.path)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	router := newRouterTestApp().setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
