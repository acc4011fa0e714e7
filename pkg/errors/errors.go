package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows how it is rendered to API clients. Code is stable and machine
// readable; Internal is logged but never serialised.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap exposes the internal error to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches any AppError carrying the same code, so derived copies still satisfy
// errors.Is(err, ErrNotFound).
func (e *AppError) Is(target error) bool {
	var other *AppError
	if e == nil || !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Code == other.Code
}

func (e *AppError) clone() *AppError {
	cpy := *e
	if e.Details != nil {
		cpy.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			cpy.Details[k] = v
		}
	}
	return &cpy
}

// WithInternal returns a copy carrying err for logs.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := e.clone()
	cpy.Internal = err
	return cpy
}

// WithMessage returns a copy with a different client message.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}
	cpy := e.clone()
	cpy.Message = message
	return cpy
}

// WithDetails returns a copy with per-field details merged in.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	if e == nil {
		return nil
	}
	cpy := e.clone()
	if len(details) == 0 {
		return cpy
	}
	if cpy.Details == nil {
		cpy.Details = make(map[string]string, len(details))
	}
	for k, v := range details {
		cpy.Details[k] = v
	}
	return cpy
}

var (
	ErrUnauthorized       = New("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	ErrTokenExpired       = New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
	ErrTokenInvalid       = New("TOKEN_INVALID", "Token is invalid", http.StatusUnauthorized)
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	ErrAccountDisabled    = New("ACCOUNT_DISABLED", "User account is disabled", http.StatusForbidden)
	ErrForbidden          = New("FORBIDDEN", "Permission denied", http.StatusForbidden)
	ErrNotFound           = New("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrConflict           = New("CONFLICT", "Resource already exists", http.StatusConflict)
	ErrBadRequest         = New("BAD_REQUEST", "Invalid request", http.StatusBadRequest)
	ErrValidation         = New("VALIDATION_FAILED", "Request validation failed", http.StatusBadRequest)
	ErrTooManyRequests    = New("TOO_MANY_REQUESTS", "Too many requests", http.StatusTooManyRequests)
	ErrInternalServer     = New("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrUnavailable        = New("UNAVAILABLE", "Service unavailable", http.StatusServiceUnavailable)
)

// New builds an application error.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap reports err as an internal failure with a client safe message.
func Wrap(err error, message string) *AppError {
	return ErrInternalServer.WithMessage(message).WithInternal(err)
}

// FromError returns the AppError inside err, or ErrInternalServer wrapping it.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest reports a malformed request.
func NewBadRequest(message string) *AppError {
	return ErrBadRequest.WithMessage(message)
}

// NewValidation reports field level validation failures.
func NewValidation(message string, details map[string]string) *AppError {
	return ErrValidation.WithMessage(message).WithDetails(details)
}

// NewConflict reports a uniqueness violation using a domain specific code.
func NewConflict(code, message string) *AppError {
	if code == "" {
		code = ErrConflict.Code
	}
	return New(code, message, http.StatusConflict)
}
