package handlers

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/logging"
	"storefront/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// ErrorHandler renders errors returned by handlers and middleware. Anything
// that is not an apperror or a fiber.Error becomes a 500 whose detail is
// only logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Message: fe.Message})
	}

	status := apperror.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(status).JSON(ErrorResponse{Message: "Internal Server Error"})
	}

	resp := ErrorResponse{Message: err.Error()}
	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		resp.Message = ve.Message
		resp.Errors = ve.Fields
	}
	return c.Status(status).JSON(resp)
}
