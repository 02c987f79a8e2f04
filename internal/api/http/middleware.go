package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/security"
)

type contextKey string

const principalKey contextKey = "principal"

// principalFrom returns the authenticated identity stored by the auth
// middleware.
func principalFrom(r *http.Request) (domain.Principal, bool) {
	p, ok := r.Context().Value(principalKey).(domain.Principal)
	return p, ok
}

// authMiddleware validates the bearer token and stores the resulting
// principal in the request context.
func authMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, domain.ErrUnauthenticated)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeError(w, domain.ErrUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loggingMiddleware records one line per request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
