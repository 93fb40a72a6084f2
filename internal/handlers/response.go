package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"market/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError writes err as a JSON error response. action completes the
// sentence "Could not ..." in the message.
func respondError(c *fiber.Ctx, err error, action string) error {
	status := apperr.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("Error trying to %s: %v", action, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": "Could not " + action,
		"error":   apperr.Message(err),
	})
}

// bind parses the request body into out and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(out)
}

// badRequest reports a bind failure, listing each failed field for
// validation errors.
func badRequest(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// paramID reads a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}
