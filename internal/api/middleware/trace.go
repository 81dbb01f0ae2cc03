package middleware

import (
	"log/slog"
	"net/http"

	"github.com/minhpham2409/quiz-app/internal/api/shared"
)

// TraceMiddleware attaches a trace ID to every request context. Apply it
// early in the chain so all downstream handlers and error responses can
// reference the same ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
