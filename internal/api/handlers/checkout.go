package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
}

func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) Begin() http.HandlerFunc {
	return h.transition("begin", http.StatusCreated, func(r *http.Request, sess *service.Session) (*models.CheckoutView, error) {
		return h.checkout.Begin(r.Context(), sess)
	})
}

func (h *CheckoutHandler) Confirm() http.HandlerFunc {
	return h.transition("confirm", http.StatusOK, func(r *http.Request, sess *service.Session) (*models.CheckoutView, error) {
		return h.checkout.Confirm(r.Context(), sess)
	})
}

func (h *CheckoutHandler) Retry() http.HandlerFunc {
	return h.transition("retry", http.StatusOK, func(r *http.Request, sess *service.Session) (*models.CheckoutView, error) {
		return h.checkout.Retry(r.Context(), sess)
	})
}

func (h *CheckoutHandler) GetCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, h.checkout.Current(sess))
	}
}

type checkoutStep func(r *http.Request, sess *service.Session) (*models.CheckoutView, error)

func (h *CheckoutHandler) transition(step string, status int, run checkoutStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("step", step))

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		view, err := run(r, sess)
		if err != nil {
			logger.Warn("Checkout step failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout step completed", slog.String("state", string(view.State)))
		response.Success(w, status, view)
	}
}
