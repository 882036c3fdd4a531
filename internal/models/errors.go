package models

import (
	"errors"
	"fmt"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
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

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RemoteError is a rejected remote post service call. Status is the HTTP
// status code and Message the response body text, which the original client
// shows verbatim for a known status.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote service: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote service: %d", e.Status)
}

// classifiedStatuses are the statuses whose server-provided message is
// surfaced verbatim to the user. Anything else gets the workflow's generic
// notice.
var classifiedStatuses = map[int]bool{
	400: true,
	401: true,
	422: true,
	500: true,
}

// NoticeText returns the user-facing text for a failed workflow call: the
// server's own message for a classified rejection, otherwise the workflow's
// generic fallback.
func NoticeText(err error, generic string) string {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && classifiedStatuses[remoteErr.Status] && remoteErr.Message != "" {
		return remoteErr.Message
	}
	return generic
}
