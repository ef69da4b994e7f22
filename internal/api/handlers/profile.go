package handlers

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront/internal/writethrough"
	"github.com/aaravmahajanofficial/storefront/pkg/geocoding"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

type ProfileHandler struct {
	geocoder  geocoding.Geocoder
	objects   repository.ObjectRepository
	storage   *config.Storage
	validator *validator.Validate
}

func NewProfileHandler(geocoder geocoding.Geocoder, objects repository.ObjectRepository, storage *config.Storage) *ProfileHandler {
	return &ProfileHandler{
		geocoder:  geocoder,
		objects:   objects,
		storage:   storage,
		validator: utils.NewValidator(),
	}
}

// awaitSync blocks on the write-through when the caller asked for it with
// ?wait=true, and reports a failed write as an error.
func awaitSync(r *http.Request, pending *writethrough.PendingSync) (models.SyncState, error) {

	if pending == nil || r.URL.Query().Get("wait") != "true" {
		return service.SyncStateOf(pending), nil
	}

	if err := pending.Wait(r.Context()); err != nil {
		if r.Context().Err() != nil {
			return service.SyncStateOf(pending), nil
		}
		return service.SyncStateOf(pending), errors.DatabaseError("Failed to save profile").WithError(err)
	}

	return service.SyncStateOf(pending), nil
}

func (h *ProfileHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		snap, err := sess.Profile().Snapshot()
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

func (h *ProfileHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update profile input")
			return
		}

		resp, pending, err := sess.Profile().UpdateProfile(r.Context(), &req)
		if err != nil {
			logger.Warn("Profile update failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if resp.Sync, err = awaitSync(r, pending); err != nil {
			logger.Error("Profile write-through failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, resp)
	}
}

// UploadPhoto stores the request body as the profile photo and points the
// profile at its download URL.
func (h *ProfileHandler) UploadPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		ownerID, _, signedIn := sess.Identity()
		if !signedIn {
			response.Error(w, errors.NotAuthenticatedError("Sign in to update your photo"))
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.storage.MaxPhotoBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stdErrors.As(err, &tooLarge) {
				response.Error(w, errors.ValidationError("Photo is too large").WithDetail(fmt.Sprintf("limit is %d bytes", h.storage.MaxPhotoBytes)))
				return
			}
			response.Error(w, errors.BadRequestError("Failed to read photo").WithError(err))
			return
		}

		if len(data) == 0 {
			response.Error(w, errors.ValidationError("Photo is empty"))
			return
		}

		mtype := mimetype.Detect(data)
		if !strings.HasPrefix(mtype.String(), "image/") {
			logger.Warn("Rejected non-image upload", slog.String("contentType", mtype.String()))
			response.Error(w, errors.ValidationError("Photo must be an image").WithDetail("detected " + mtype.String()))
			return
		}

		path := fmt.Sprintf("%s/%s.jpg", h.storage.ProfileImgPath, ownerID)

		uploadCtx, cancel := context.WithTimeout(r.Context(), h.storage.UploadTimeout)
		err = h.objects.Upload(uploadCtx, path, mtype.String(), data)
		cancel()

		if err != nil {
			logger.Error("Photo upload failed", slog.String("path", path), slog.String("error", err.Error()))
			if stdErrors.Is(err, context.DeadlineExceeded) {
				response.Error(w, errors.TimeoutError("Photo upload timed out").WithError(err))
				return
			}
			response.Error(w, errors.DatabaseError("Failed to upload photo").WithError(err))
			return
		}

		// the path never changes, so the version busts client caches
		photoRef := fmt.Sprintf("%s?v=%d", h.objects.DownloadURL(path), time.Now().Unix())

		_, pending, err := sess.Profile().UpdateProfile(r.Context(), &models.UpdateProfileRequest{PhotoRef: &photoRef})
		if err != nil {
			response.Error(w, err)
			return
		}

		syncState, err := awaitSync(r, pending)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Profile photo uploaded", slog.String("path", path), slog.Int("bytes", len(data)))
		response.Success(w, http.StatusOK, &models.UploadPhotoResponse{PhotoRef: photoRef, Sync: syncState})
	}
}

func (h *ProfileHandler) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add address input")
			return
		}

		h.addAddress(w, r, sess, &req)
	}
}

// LocateAddress reverse-geocodes the device position and saves the result
// as a new selected address.
func (h *ProfileHandler) LocateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.LocateAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid locate address input")
			return
		}

		located, err := h.geocoder.Reverse(r.Context(), req.Lat, req.Lng)
		if err != nil {
			logger.Warn("Reverse geocoding failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		h.addAddress(w, r, sess, &models.AddAddressRequest{Label: located.Address.Label, Details: located.Address.Details})
	}
}

func (h *ProfileHandler) addAddress(w http.ResponseWriter, r *http.Request, sess *service.Session, req *models.AddAddressRequest) {

	logger := middleware.LoggerFromContext(r.Context())

	addr, pending, err := sess.Profile().AddAddress(r.Context(), req)
	if err != nil {
		logger.Warn("Add address failed", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	syncState, err := awaitSync(r, pending)
	if err != nil {
		logger.Error("Address write-through failed", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	logger.Info("Address added", slog.String("addressId", addr.ID))
	response.Success(w, http.StatusCreated, &models.AddressResponse{Address: addr, Sync: syncState})
}

func (h *ProfileHandler) SelectAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.SelectAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid select address input")
			return
		}

		addr, pending, err := sess.Profile().SelectAddress(r.Context(), req.ID)
		if err != nil {
			logger.Warn("Select address failed", slog.String("addressId", req.ID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		syncState, err := awaitSync(r, pending)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, &models.AddressResponse{Address: addr, Sync: syncState})
	}
}
