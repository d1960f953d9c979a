package utils

import (
	"errors"
	"net/http"
)

// ErrorKind is the closed set of failure categories produced by the auth
// core. Kinds are assigned at the point of failure and matched exactly once,
// at the transport boundary, when converting to response codes.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication" // missing/invalid/expired/revoked token
	KindAuthorization  ErrorKind = "authorization"  // valid identity, insufficient permission
	KindNotFound       ErrorKind = "not_found"      // referenced user/family missing
	KindInfrastructure ErrorKind = "infrastructure" // revocation store or persistence unreachable
)

// AppError carries a kind plus a stable public code and message. Service and
// core layers return it; controllers hand it to HandleAppError.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAuthenticationError(code, message string) *AppError {
	return &AppError{Kind: KindAuthentication, Code: code, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Code: ErrCodeForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: ErrCodeNotFound, Message: message}
}

func NewInfrastructureError(message string, err error) *AppError {
	return &AppError{Kind: KindInfrastructure, Code: ErrCodeInfrastructure, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// statusForKind is the single place where error kinds become HTTP statuses.
func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, statusForKind(appErr.Kind), appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}
	// Fallback for unexpected error types
	RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
}
