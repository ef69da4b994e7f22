package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const maxJSONBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body cannot be empty")

// DecodeJSONBody decodes exactly one JSON value from the request body.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {

	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)

	if err := dec.Decode(dest); err != nil {

		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}

	return nil
}

// ParseAndValidate writes the error response itself and reports whether the
// handler may continue.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	logger := middleware.LoggerFromContext(r.Context())

	if err := DecodeJSONBody(w, r, dest); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
		return false
	}

	if err := validate.Struct(dest); err != nil {

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			logger.Warn("Request validation failed", slog.String("error", validationErrs.Error()))
			response.ValidationError(w, validationErrs)
			return false
		}

		logger.Error("Unexpected validation error", slog.String("error", err.Error()))
		response.Error(w, appErrors.ValidationError("Invalid input data"))
		return false
	}

	return true
}
