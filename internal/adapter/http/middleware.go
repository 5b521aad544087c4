package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/domain"
	"github.com/freshconcept/ordering/internal/interfaces"
)

type contextKey string

const (
	contextKeyActor     contextKey = "actor"
	contextKeyRequestID contextKey = "request_id"
)

// actorFrom extracts the authenticated actor attached by AuthMiddleware.
// Handlers hand it explicitly to every service call.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	actor, ok := r.Context().Value(contextKeyActor).(domain.Actor)
	return actor, ok
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyRequestID).(string)
	return id
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoggingMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := requestIDFrom(r)

			lgr.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			next.ServeHTTP(w, r)

			lgr.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					lgr.Error("panic_recovered", "Panic recovered", requestIDFrom(r), nil, fmt.Errorf("%v", err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware authenticates HTTP basic credentials against the user
// table and attaches the resulting Actor to the request context.
func AuthMiddleware(accounts interfaces.AccountService, lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="ordering"`)
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			actor, err := accounts.Authenticate(r.Context(), username, password)
			if err != nil {
				lgr.Warn("auth_failed", "Authentication failed", requestIDFrom(r), map[string]interface{}{
					"username": username,
				})
				writeDomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyActor, *actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
