package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"

	// Account errors
	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken    ErrorCode = "EMAIL_TAKEN"
	ErrCodeBadPassword   ErrorCode = "BAD_PASSWORD"
	ErrCodeInvalidToken  ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired  ErrorCode = "TOKEN_EXPIRED"
	ErrCodeAuthFailed    ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeNotAuthorized ErrorCode = "AUTHORIZATION_FAILED"

	// Meeting errors
	ErrCodeMeetingNotFound ErrorCode = "MEETING_NOT_FOUND"
	ErrCodeMeetingEnded    ErrorCode = "MEETING_ENDED"
	ErrCodeNotHost         ErrorCode = "NOT_HOST"

	// Team errors
	ErrCodeTeamNotFound ErrorCode = "TEAM_NOT_FOUND"
	ErrCodeNotMember    ErrorCode = "NOT_MEMBER"

	// Signaling errors
	ErrCodeInvalidCredential   ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeDuplicateConnection ErrorCode = "DUPLICATE_CONNECTION"
	ErrCodeInvalidMessage      ErrorCode = "INVALID_MESSAGE"
	ErrCodeNotInRoom           ErrorCode = "NOT_IN_ROOM"
)

// AppError represents an application error
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
	}
}

// NewAppErrorf creates a new application error with formatting
func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: getHTTPStatus(code),
	}
}

// getHTTPStatus returns the HTTP status code for an error code
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound, ErrCodeUserNotFound, ErrCodeMeetingNotFound, ErrCodeTeamNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeAuthFailed, ErrCodeInvalidToken, ErrCodeTokenExpired,
		ErrCodeInvalidCredential, ErrCodeBadPassword:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeNotAuthorized, ErrCodeNotHost, ErrCodeNotMember:
		return http.StatusForbidden
	case ErrCodeConflict, ErrCodeEmailTaken, ErrCodeDuplicateConnection:
		return http.StatusConflict
	case ErrCodeInvalidInput, ErrCodeInvalidMessage, ErrCodeNotInRoom:
		return http.StatusBadRequest
	case ErrCodeMeetingEnded:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts an error to AppError
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// WrapError wraps a standard error as an AppError
func WrapError(code ErrorCode, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    err.Error(),
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
	}
}
