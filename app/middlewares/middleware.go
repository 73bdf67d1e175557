package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/google/uuid"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), helpers.ContextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoggingMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("request",
				zap.String("request_id", helpers.RequestID(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func RecoverMiddleware(rnd *render.Render, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic while serving request",
						zap.String("request_id", helpers.RequestID(r)),
						zap.Any("panic", rec),
					)
					rnd.JSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware puts the authenticated user on the request context.
func AuthMiddleware(auth Authenticator, rnd *render.Render, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil || user == nil {
				log.Debug("rejected bearer token", zap.String("request_id", helpers.RequestID(r)), zap.Error(err))
				w.Header().Set("WWW-Authenticate", "Bearer")
				rnd.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid bearer token is sent
// and lets anonymous requests through.
func OptionalAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if user, err := auth.Authenticate(r.Context(), token); err == nil && user != nil {
					r = r.WithContext(context.WithValue(r.Context(), helpers.ContextKeyUser, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
