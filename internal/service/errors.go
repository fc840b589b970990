package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskly-api/internal/domain"
	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/phrazzld/taskly-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// caller. Services never return it; they collapse it into the resource's
	// not-found error.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials is returned by Login and password changes when the
	// email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidLabelReference indicates a task references a label the caller
	// does not own, or that does not exist.
	ErrInvalidLabelReference = errors.New("task references a label not owned by the user")
)

// ServiceError wraps unexpected errors with the service and operation that
// produced them.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err in a ServiceError unless it is one of the
// expected error classes, which are returned unchanged so callers can match
// them directly.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if isExpected(err) {
		return err
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func isExpected(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrUnauthorized,
		store.ErrNotFound,
		store.ErrDuplicate,
		store.ErrStoreUnavailable,
		ErrInvalidCredentials,
		ErrInvalidLabelReference,
		auth.ErrInvalidToken,
		auth.ErrExpiredToken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
