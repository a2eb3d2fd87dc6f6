// Package apperror holds the failure kinds the HTTP layer knows how to render.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/validation"
)

// ValidationError is a caller-correctable failure: bad input, insufficient
// stock, an unusable promo code.
type ValidationError struct {
	Message string
	Fields  validation.Errors
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// UnauthorizedError reports a missing or invalid identity.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ForbiddenError reports an identity lacking the required role.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InvalidFields builds a ValidationError for a failed payload parse. The
// message carries the first reason, the full list travels in Fields.
func InvalidFields(subject string, fields validation.Errors) error {
	msg := "Invalid " + subject
	if len(fields) > 0 {
		msg = fmt.Sprintf("Invalid %s: %s %s", subject, fields[0].Field, fields[0].Reason)
	}
	return &ValidationError{Message: msg, Fields: fields}
}

func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error { return &UnauthorizedError{Message: msg} }

func Forbidden(msg string) error { return &ForbiddenError{Message: msg} }

// StatusCode maps err to the HTTP status it should be answered with.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		ua *UnauthorizedError
		fb *ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ua):
		return http.StatusUnauthorized
	case errors.As(err, &fb):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
