package handlers

import (
	stdErrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type ObjectHandler struct {
	objects repository.ObjectRepository
}

func NewObjectHandler(objects repository.ObjectRepository) *ObjectHandler {
	return &ObjectHandler{objects: objects}
}

// Download serves a stored object; routed as /api/v1/objects/{path...}.
func (h *ObjectHandler) Download() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		path := r.PathValue("path")
		if path == "" {
			response.Error(w, errors.BadRequestError("Object path is required"))
			return
		}

		obj, err := h.objects.Download(r.Context(), path)
		if err != nil {
			if stdErrors.Is(err, repository.ErrObjectNotFound) {
				response.Error(w, errors.NotFoundError("Object not found"))
				return
			}
			logger.Error("Object download failed", slog.String("path", path), slog.String("error", err.Error()))
			response.Error(w, errors.DatabaseError("Failed to load object").WithError(err))
			return
		}

		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("Last-Modified", obj.UpdatedAt.UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(obj.Data); err != nil {
			logger.Warn("Object write failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
}
