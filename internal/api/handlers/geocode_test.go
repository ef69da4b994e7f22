package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	geoMocks "github.com/aaravmahajanofficial/storefront/pkg/geocoding/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGeocodeHandler_Reverse(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		geocoder := geoMocks.NewMockGeocoder(t)
		geocoder.On("Reverse", mock.Anything, 12.5, 77.25).Return(&models.ReverseGeocodeResponse{
			Lat: 12.5, Lng: 77.25, Address: models.Address{Label: "Selected location", Details: "12.500000, 77.250000"},
		}, nil).Once()

		rr := httptest.NewRecorder()

		// Act
		handlers.NewGeocodeHandler(geocoder).Reverse()(rr, testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/geocode/reverse?lat=12.5&lng=77.25", nil, nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.ReverseGeocodeResponse
		decodeData(t, decodeResponse(t, rr), &got)
		assert.Equal(t, "Selected location", got.Address.Label)
	})

	tests := []struct {
		name   string
		target string
	}{
		{"Failure - Missing Lat", "/api/v1/geocode/reverse?lng=1"},
		{"Failure - Lat Out Of Range", "/api/v1/geocode/reverse?lat=91&lng=1"},
		{"Failure - Lng Not A Number", "/api/v1/geocode/reverse?lat=1&lng=east"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			handlers.NewGeocodeHandler(geoMocks.NewMockGeocoder(t)).Reverse()(rr, testutils.CreateTestRequestWithoutContext(http.MethodGet, tc.target, nil, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr).Error.Code)
		})
	}

	t.Run("Failure - Upstream Error", func(t *testing.T) {
		geocoder := geoMocks.NewMockGeocoder(t)
		geocoder.On("Reverse", mock.Anything, 1.0, 1.0).Return(nil, appErrors.ThirdPartyError("Address lookup failed")).Once()

		rr := httptest.NewRecorder()
		handlers.NewGeocodeHandler(geocoder).Reverse()(rr, testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/geocode/reverse?lat=1&lng=1", nil, nil))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}
