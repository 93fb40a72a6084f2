package middleware

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request, tagged with its request id.
// Successful requests log at INFO, 401-404 at WARNING, server errors and
// recovered panics at ERROR.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(chainErr, &fiberErr) {
				status = fiberErr.Code
			}
		}

		requestID, _ := c.Locals("requestid").(string)
		latency := time.Since(start)
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Printf("ERROR [%s] %s %s -> %d (%s): %v", requestID, c.Method(), c.OriginalURL(), status, latency, chainErr)
		case status >= fiber.StatusUnauthorized && status <= fiber.StatusNotFound:
			log.Printf("WARNING [%s] %s %s -> %d (%s)", requestID, c.Method(), c.OriginalURL(), status, latency)
		default:
			log.Printf("INFO [%s] %s %s -> %d (%s)", requestID, c.Method(), c.OriginalURL(), status, latency)
		}
		return chainErr
	}
}
