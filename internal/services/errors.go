package services

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/repositories"
)

// notFound turns a repository miss into a NotFoundError with the given
// message and passes every other error through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(format, args...)
	}
	return err
}

// duplicate turns a unique index violation into a ValidationError.
func duplicate(err error, msg string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperror.Validation("%s", msg)
	}
	return err
}

func statusWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
