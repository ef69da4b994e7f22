package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const cartEventsKeepAlive = 25 * time.Second

type CartHandler struct {
	catalog   service.CatalogService
	validator *validator.Validate
}

func NewCartHandler(catalog service.CatalogService) *CartHandler {
	return &CartHandler{catalog: catalog, validator: utils.NewValidator()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sess.Cart().View())
	}
}

// AddItem adds one unit of a catalog product.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		product, err := h.catalog.GetProduct(req.ProductID)
		if err != nil {
			logger.Warn("Add of unknown product", slog.String("productId", req.ProductID))
			response.Error(w, err)
			return
		}

		view, err := sess.Cart().Add(*product)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added", slog.String("productId", product.ID), slog.Int("itemCount", view.ItemCount))
		response.Success(w, http.StatusOK, view)
	}
}

// UpdateItem applies either an absolute quantity or a stepper delta.
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, errors.BadRequestError("Cart item id is required"))
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart := sess.Cart()

		var (
			view models.CartView
			err  error
		)

		switch {
		case req.Quantity != nil:
			view, err = cart.SetQuantity(id, *req.Quantity)
		case *req.Delta > 0:
			view, err = cart.Increment(id)
		default:
			view, err = cart.Decrement(id)
		}

		if err != nil {
			logger.Warn("Cart update failed", slog.String("itemId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sess.Cart().Remove(r.PathValue("id")))
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sess.Cart().Clear())
	}
}

// Events streams the cart as server-sent events: the current state first,
// then one event per mutation until the client disconnects.
func (h *CartHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, errors.InternalError("Streaming unsupported"))
			return
		}

		updates, cancel := sess.Cart().Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := writeCartEvent(w, sess.Cart().View()); err != nil {
			return
		}
		flusher.Flush()

		keepAlive := time.NewTicker(cartEventsKeepAlive)
		defer keepAlive.Stop()

		logger.Debug("Cart event stream opened")

		for {
			select {
			case <-r.Context().Done():
				logger.Debug("Cart event stream closed")
				return
			case view, open := <-updates:
				if !open {
					return
				}
				if err := writeCartEvent(w, view); err != nil {
					logger.Debug("Cart event write failed", slog.String("error", err.Error()))
					return
				}
				flusher.Flush()
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeCartEvent(w http.ResponseWriter, view models.CartView) error {

	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "id: %d\nevent: cart\ndata: %s\n\n", view.Version, payload)

	return err
}
