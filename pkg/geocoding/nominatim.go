// Package geocoding resolves coordinates to a human readable address.
package geocoding

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const fallbackLabel = "Selected location"

type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*models.ReverseGeocodeResponse, error)
}

type nominatimClient struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

func NewNominatimClient(cfg *config.Geocoding) Geocoder {
	return &nominatimClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (c *nominatimClient) Reverse(ctx context.Context, lat, lng float64) (*models.ReverseGeocodeResponse, error) {

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.InternalError("Failed to build geocoding request").WithError(err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.TimeoutError("Address lookup timed out").WithError(err)
		}
		return nil, errors.ThirdPartyError("Address lookup failed").WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.ThirdPartyError("Address lookup failed").WithDetail(fmt.Sprintf("geocoder returned status %d", resp.StatusCode))
	}

	var result reverseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.TimeoutError("Address lookup timed out").WithError(err)
		}
		return nil, errors.ThirdPartyError("Invalid geocoder response").WithError(err)
	}

	return &models.ReverseGeocodeResponse{
		Lat:     lat,
		Lng:     lng,
		Address: AddressFor(lat, lng, result.DisplayName),
	}, nil
}

// AddressFor derives the label and details of a located address. The label is
// the first comma separated part of the display name.
func AddressFor(lat, lng float64, displayName string) models.Address {

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.Address{
			Label:   fallbackLabel,
			Details: fmt.Sprintf("%.6f, %.6f", lat, lng),
		}
	}

	label, _, _ := strings.Cut(displayName, ",")
	label = strings.TrimSpace(label)
	if label == "" {
		label = fallbackLabel
	}

	return models.Address{Label: label, Details: displayName}
}
