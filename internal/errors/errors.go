package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// underlying AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return GetCode(err) == code
}

// UserMessage returns the innermost AppError message, which is the one
// written for display rather than for logs.
func UserMessage(err error) string {
	msg := ""
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			msg = appErr.Message
		}
		err = stderrors.Unwrap(err)
	}
	return msg
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeApplicationError = "APPLICATION_ERROR"
	CodeBusy             = "BUSY"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
)

// HTTPStatus maps an error code to the status newsdesk answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeValidationError:
		return http.StatusBadRequest
	case CodeBusy:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeApplicationError:
		return http.StatusUnprocessableEntity
	case CodeNetworkError, CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func Busy(message string) *AppError {
	return New(CodeBusy, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// NetworkError marks a transport failure: the request never produced a response.
func NetworkError(cause error) *AppError {
	return &AppError{
		Code:    CodeNetworkError,
		Message: "Network error. Please check your connection and try again.",
		Cause:   cause,
	}
}

// ApplicationError carries a failure reported by the backend itself.
func ApplicationError(message string) *AppError {
	return New(CodeApplicationError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
