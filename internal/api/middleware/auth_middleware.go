package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	models "github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// RevocationChecker reports whether a signed-out token id is still presented.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtKey      []byte
	revocations RevocationChecker
}

// NewAuthMiddleware returns the bearer token middleware. revocations may be nil.
func NewAuthMiddleware(jwtKey []byte, revocations RevocationChecker) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey, revocations: revocations}

}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok && claims != nil
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		ctx, err := m.authenticate(r.Context(), authHeader)
		if err != nil {
			response.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Optional lets guests through but still rejects a bad token.
func (m *AuthMiddleware) Optional(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, err := m.authenticate(r.Context(), authHeader)
		if err != nil {
			response.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (m *AuthMiddleware) authenticate(ctx context.Context, authHeader string) (context.Context, error) {

	logger := LoggerFromContext(ctx)

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	var methodErr error
	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
			methodErr = errors.BadRequestError("unexpected signing method")
			return nil, methodErr
		}
		return m.jwtKey, nil
	})

	if methodErr != nil {
		return nil, methodErr
	}

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid {
		logger.Warn("Invalid token")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		logger.Warn("Expired token", slog.String("userId", claims.UserID.String()))
		return nil, errors.UnauthorizedError("Token expired")
	}

	if m.revocations != nil && claims.ID != "" {
		revoked, err := m.revocations.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			logger.Error("Failed to check token revocation", slog.String("error", err.Error()))
			return nil, errors.ThirdPartyError("Failed to verify session").WithError(err)
		}
		if revoked {
			logger.Warn("Revoked token presented", slog.String("userId", claims.UserID.String()))
			return nil, errors.UnauthorizedError("Token has been revoked")
		}
	}

	requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))

	ctx = context.WithValue(ctx, UserContextKey, claims)
	ctx = WithLogger(ctx, requestScopedLogger)

	requestScopedLogger.Debug("User authenticated")

	return ctx, nil
}
