package handlers

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var validate = validation.New()

// parseBody decodes the JSON body into dst, normalizes and validates it.
// subject names the payload in the error message ("order data").
func parseBody(c *fiber.Ctx, dst any, subject string) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("Invalid %s: malformed request body", subject)
	}
	return check(dst, subject)
}

// parseQuery does the same as parseBody for the query string.
func parseQuery(c *fiber.Ctx, dst any, subject string) error {
	if err := c.QueryParser(dst); err != nil {
		return apperror.Validation("Invalid %s: malformed query", subject)
	}
	return check(dst, subject)
}

func check(dst any, subject string) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return apperror.InvalidFields(subject, fields)
	}
	return err
}

// statusResponse is the body of the status flip endpoints: a message plus
// the updated record under key.
func statusResponse(c *fiber.Ctx, msg, key string, value any) error {
	return c.JSON(fiber.Map{
		"message": msg,
		key:       value,
	})
}
