package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/service"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/phrazzld/taskly-api/internal/store"
)

// Stable error codes carried in every error response.
const (
	CodeUnauthorized          = "unauthorized"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeNotFound              = "not_found"
	CodeValidation            = "validation_error"
	CodeDuplicateName         = "duplicate_name"
	CodeEmailExists           = "email_exists"
	CodeInvalidLabelReference = "invalid_label_reference"
	CodeStoreUnavailable      = "store_unavailable"
	CodeRateLimited           = "rate_limited"
	CodeRequestCanceled       = "request_canceled"
	CodeInternal              = "internal_error"
)

// StatusClientClosedRequest reports a request the client abandoned before
// it completed. It is nginx's non-standard 499.
const StatusClientClosedRequest = 499

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		isAuthError(err):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusNotFound

	case errors.Is(err, store.ErrLabelNameExists),
		errors.Is(err, store.ErrEmailExists),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidLabelReference),
		isValidationError(err):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode returns the stable machine-readable code for err.
func MapErrorToCode(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return CodeRequestCanceled
	case errors.Is(err, service.ErrInvalidCredentials):
		return CodeInvalidCredentials
	case isAuthError(err):
		return CodeUnauthorized
	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrNotOwned):
		return CodeNotFound
	case errors.Is(err, store.ErrLabelNameExists):
		return CodeDuplicateName
	case errors.Is(err, store.ErrEmailExists):
		return CodeEmailExists
	case errors.Is(err, service.ErrInvalidLabelReference):
		return CodeInvalidLabelReference
	case store.IsDuplicateError(err):
		return CodeDuplicateName
	case isValidationError(err),
		errors.Is(err, shared.ErrBodyTooLarge):
		return CodeValidation
	case errors.Is(err, store.ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternal
	}
}

// GetSafeErrorMessage returns a fixed, client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "Request canceled"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case isAuthError(err):
		return "Invalid or expired authentication token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrLabelNotFound):
		return "Label not found"
	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrNotOwned):
		return "Resource not found"

	case errors.Is(err, store.ErrLabelNameExists):
		return "A label with this name already exists"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, service.ErrInvalidLabelReference):
		return "One or more labels do not exist"

	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"
	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"
	case isValidationError(err):
		return SanitizeValidationError(err)

	case errors.Is(err, store.ErrStoreUnavailable):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status, code, and safe message, logs the
// redacted error, and writes the response. A non-empty message overrides
// the default safe message for 4xx errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safe := GetSafeErrorMessage(err)
	if message != "" && status < http.StatusInternalServerError {
		safe = message
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, MapErrorToCode(err), safe, err, opts...)
}

func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidRefreshToken) ||
		errors.Is(err, auth.ErrExpiredRefreshToken)
}

func isValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, shared.ErrMalformedBody) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.As(err, &fieldErrs)
}

// SanitizeValidationError turns a validation failure into a short message
// naming the field. Struct and package names never appear in the result.
func SanitizeValidationError(err error) string {
	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	if errors.Is(err, shared.ErrMalformedBody) {
		return "Invalid request format"
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "hexcolor":
		return "must be a #RRGGBB color"
	default:
		return "validation failed"
	}
}
