// Package apperror defines the application error taxonomy shared by the
// stores, session manager and HTTP handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the type of application error
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// DuplicateAccountError represents a signup with an already registered email
	DuplicateAccountError
	// AccountNotFoundError represents a login with an unknown email
	AccountNotFoundError
	// InvalidCredentialsError represents a login with a wrong password
	InvalidCredentialsError
	// AuthError represents a missing or invalid session/token
	AuthError
	// ForbiddenError represents insufficient permissions
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// ExternalServiceError represents a failure of the generation service
	ExternalServiceError
)

// AppError is a custom error type carrying a taxonomy code alongside the
// user-facing message and an optional underlying error.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the stable string identifier used in JSON error envelopes.
// Login failures intentionally keep distinct codes even though their
// messages already differ.
func (e *AppError) Code() string {
	switch e.Type {
	case DuplicateAccountError:
		return "duplicate_account"
	case AccountNotFoundError:
		return "account_not_found"
	case InvalidCredentialsError:
		return "invalid_credentials"
	case AuthError:
		return "unauthorized"
	case ForbiddenError:
		return "forbidden"
	case NotFoundError:
		return "not_found"
	case ValidationError:
		return "validation_error"
	case ExternalServiceError:
		return "external_service_error"
	case DatabaseError:
		return "database_error"
	default:
		return "internal_error"
	}
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DuplicateAccountError:
		return http.StatusConflict
	case AccountNotFoundError, InvalidCredentialsError, AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case ExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlyingError}
}

func NewDuplicateAccountError(message string) *AppError {
	return NewAppError(DuplicateAccountError, message, nil)
}

func NewAccountNotFoundError(message string) *AppError {
	return NewAppError(AccountNotFoundError, message, nil)
}

func NewInvalidCredentialsError(message string) *AppError {
	return NewAppError(InvalidCredentialsError, message, nil)
}

func NewAuthError(message string) *AppError {
	return NewAppError(AuthError, message, nil)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(ForbiddenError, message, nil)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(NotFoundError, message, nil)
}

func NewValidationError(message string) *AppError {
	return NewAppError(ValidationError, message, nil)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(DatabaseError, message, err)
}

func NewExternalServiceError(message string, err error) *AppError {
	return NewAppError(ExternalServiceError, message, err)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
