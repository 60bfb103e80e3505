package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/services"
)

type AssessHandler struct {
	assessor services.AssessorService
	limiter  *services.InflightLimiter
}

func NewAssessHandler(assessor services.AssessorService, limiter *services.InflightLimiter) *AssessHandler {
	return &AssessHandler{
		assessor: assessor,
		limiter:  limiter,
	}
}

// HandleAssess handles POST /assess
func (h *AssessHandler) HandleAssess(c *fiber.Ctx) error {
	var req models.AssessRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	userID := middleware.UserID(c)

	if !h.limiter.Acquire(userID) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "too many concurrent requests",
		})
	}
	defer h.limiter.Release(userID)

	result, err := h.assessor.Assess(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
