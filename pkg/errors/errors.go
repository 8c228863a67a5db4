package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUnauthorized       = errors.New("unauthorized access")

	ErrInvalidInput   = errors.New("invalid input data")
	ErrInvalidID      = errors.New("invalid identifier")
	ErrInvalidRange   = errors.New("value out of range")
	ErrInvalidTime    = errors.New("invalid time range")
	ErrActionNotFound = errors.New("unknown action")

	ErrActionInProgress = errors.New("action in progress")
	ErrNotAllowed       = errors.New("action not allowed")
)

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

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotAllowed builds the error returned when a UX rule blocks an action.
func NotAllowed(message string) *AppError {
	return NewAppError("NOT_ALLOWED", message, ErrNotAllowed)
}

// UserMessage returns the text suitable for a notification.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
