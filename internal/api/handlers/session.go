package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-ID"

type sessionContextKey struct{}

// SessionResolver is the part of the session registry the HTTP layer needs.
type SessionResolver interface {
	GetOrCreate(id string) *service.Session
	EnsureSignedIn(ctx context.Context, sess *service.Session, claims *models.Claims) error
}

// WithSession resolves the client session from X-Session-ID, issuing a new id
// when the header is missing or malformed. It must run after the auth middleware.
func WithSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ctx := r.Context()

			id := r.Header.Get(SessionHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(SessionHeader, id)

			logger := middleware.LoggerFromContext(ctx).With(slog.String("sessionId", id))
			ctx = middleware.WithLogger(ctx, logger)

			sess := sessions.GetOrCreate(id)

			if claims, ok := middleware.ClaimsFromContext(ctx); ok {
				if err := sessions.EnsureSignedIn(ctx, sess, claims); err != nil {
					logger.Warn("Failed to bind session to token owner", slog.String("error", err.Error()))
					response.Error(w, err)
					return
				}
			}

			ctx = ContextWithSession(ctx, sess)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithSession(ctx context.Context, sess *service.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*service.Session)

	return sess, ok && sess != nil
}

func requireSession(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Error("Session missing from request context")
		response.Error(w, errors.InternalError("Session unavailable"))
		return nil, false
	}

	return sess, true
}

func requireClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Unauthorized request: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}
