package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/storefront/pkg/geocoding"
)

type GeocodeHandler struct {
	geocoder geocoding.Geocoder
}

func NewGeocodeHandler(geocoder geocoding.Geocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

func parseCoordinate(raw, field string, limit float64) (float64, error) {

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.AddValidationError(field, "must be a number")
	}

	if v < -limit || v > limit {
		return 0, errors.AddValidationError(field, "out of range")
	}

	return v, nil
}

// Reverse resolves ?lat=&lng= to an address without saving it.
func (h *GeocodeHandler) Reverse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		lat, err := parseCoordinate(r.URL.Query().Get("lat"), "lat", 90)
		if err != nil {
			response.Error(w, err)
			return
		}

		lng, err := parseCoordinate(r.URL.Query().Get("lng"), "lng", 180)
		if err != nil {
			response.Error(w, err)
			return
		}

		resp, err := h.geocoder.Reverse(r.Context(), lat, lng)
		if err != nil {
			logger.Warn("Reverse geocoding failed", slog.Float64("lat", lat), slog.Float64("lng", lng), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}
