package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	// RetryAfter is sent as the Retry-After header, in seconds, when positive.
	RetryAfter int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithRetryAfter(seconds int) *AppError {
	e.RetryAfter = seconds

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeTimeout           = "TIMEOUT"

	// auth
	ErrCodeNotAuthenticated  = "NOT_AUTHENTICATED"
	ErrCodeInvalidCredential = "INVALID_CREDENTIAL"
	ErrCodeEmailInUse        = "EMAIL_IN_USE"
	ErrCodeReauthRequired    = "REAUTHENTICATION_REQUIRED"

	// storefront flows
	ErrCodeAddressNotFound = "ADDRESS_NOT_FOUND"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeCheckoutClosed  = "CHECKOUT_CLOSED"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusBadGateway)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func TimeoutError(message string) *AppError {
	return NewAppError(ErrCodeTimeout, message, http.StatusGatewayTimeout)
}

func NotAuthenticatedError(message string) *AppError {
	return NewAppError(ErrCodeNotAuthenticated, message, http.StatusUnauthorized)
}

func InvalidCredentialError(message string) *AppError {
	return NewAppError(ErrCodeInvalidCredential, message, http.StatusUnauthorized)
}

func EmailInUseError(message string) *AppError {
	return NewAppError(ErrCodeEmailInUse, message, http.StatusConflict)
}

func ReauthenticationRequiredError(message string) *AppError {
	return NewAppError(ErrCodeReauthRequired, message, http.StatusUnauthorized)
}

func AddressNotFoundError(id string) *AppError {
	return NewAppError(ErrCodeAddressNotFound, "Address not found", http.StatusNotFound).WithDetail(fmt.Sprintf("no saved address with id '%s'", id))
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cannot checkout with an empty cart", http.StatusBadRequest)
}

func CheckoutClosedError(message string) *AppError {
	return NewAppError(ErrCodeCheckoutClosed, message, http.StatusConflict)
}

// Kind groups codes into the families callers branch on.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindPersistence Kind = "persistence"
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindFlow        Kind = "flow"
	KindInternal    Kind = "internal"
)

func (e *AppError) Kind() Kind {
	switch e.Code {
	case ErrCodeUnauthorized, ErrCodeNotAuthenticated, ErrCodeInvalidCredential,
		ErrCodeEmailInUse, ErrCodeReauthRequired, ErrCodeTooManyRequests:
		return KindAuth
	case ErrCodeDatabaseError:
		return KindPersistence
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeEmptyCart:
		return KindValidation
	case ErrCodeNotFound, ErrCodeAddressNotFound:
		return KindNotFound
	case ErrCodeCheckoutClosed, ErrCodeTimeout, ErrCodeThirdPartyError:
		return KindFlow
	}

	return KindInternal
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
