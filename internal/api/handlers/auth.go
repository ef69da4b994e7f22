package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, validator: utils.NewValidator()}
}

// SignUp creates the account and signs the new user in on the calling session.
func (h *AuthHandler) SignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.SignUpRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid sign up input")
			return
		}

		account, err := h.authService.SignUp(r.Context(), &req)
		if err != nil {
			logger.Warn("Sign up failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		resp := &models.SignUpResponse{Account: account}

		authSession, err := h.authService.SignIn(r.Context(), &models.SignInRequest{Email: req.Email, Password: req.Password}, sess.ID)
		if err != nil {
			logger.Warn("Automatic sign in after sign up failed", slog.String("userId", account.ID.String()), slog.String("error", err.Error()))
		} else {
			resp.Session = authSession
		}

		logger.Info("User signed up", slog.String("userId", account.ID.String()))
		response.Success(w, http.StatusCreated, resp)
	}
}

func (h *AuthHandler) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.SignInRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid sign in input")
			return
		}

		authSession, err := h.authService.SignIn(r.Context(), &req, sess.ID)
		if err != nil {
			logger.Warn("Sign in failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed in", slog.String("userId", authSession.OwnerID.String()))
		response.Success(w, http.StatusOK, authSession)
	}
}

func (h *AuthHandler) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		if err := h.authService.SignOut(r.Context(), claims, sess.ID); err != nil {
			logger.Error("Sign out failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed out")
		response.Success(w, http.StatusOK, map[string]string{"status": "signed_out"})
	}
}

func (h *AuthHandler) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.ChangePasswordRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid change password input")
			return
		}

		if err := h.authService.ChangePassword(r.Context(), claims.UserID, &req); err != nil {
			logger.Warn("Password change failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Password changed")
		response.Success(w, http.StatusOK, map[string]string{"status": "password_changed"})
	}
}
