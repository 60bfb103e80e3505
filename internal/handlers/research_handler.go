package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/services"
)

type ResearchHandler struct {
	research services.ResearchService
	limiter  *services.InflightLimiter
}

func NewResearchHandler(research services.ResearchService, limiter *services.InflightLimiter) *ResearchHandler {
	return &ResearchHandler{
		research: research,
		limiter:  limiter,
	}
}

// HandleResearch handles POST /research
func (h *ResearchHandler) HandleResearch(c *fiber.Ctx) error {
	var req models.ResearchRequest

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

	result, err := h.research.Research(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
