package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/services"
)

// respondError maps pipeline error types to status codes. Client input
// problems are 400, provider failures 502, malformed or missing model
// output 500. No partial results accompany an error.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		upstreamErr   *services.UpstreamError
		timeoutErr    *services.TimeoutError
	)

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &upstreamErr), errors.As(err, &timeoutErr):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
