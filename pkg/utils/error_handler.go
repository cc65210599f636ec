package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is an error that carries the HTTP status and the message shown
// to the client. Err holds the underlying cause, if any.
type AppError struct {
	Status  int
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

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// ErrorHandler logs err with message and returns it wrapped.
func ErrorHandler(logger *logrus.Logger, err error, message string) error {
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error(message)
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}

// StatusOf returns the HTTP status and client message for err.
// Anything that is not an *AppError is an internal error.
func StatusOf(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
