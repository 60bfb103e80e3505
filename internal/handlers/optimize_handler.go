package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/services"
)

type OptimizeHandler struct {
	optimizer services.OptimizerService
	limiter   *services.InflightLimiter
}

func NewOptimizeHandler(optimizer services.OptimizerService, limiter *services.InflightLimiter) *OptimizeHandler {
	return &OptimizeHandler{
		optimizer: optimizer,
		limiter:   limiter,
	}
}

// HandleOptimize handles POST /optimize
func (h *OptimizeHandler) HandleOptimize(c *fiber.Ctx) error {
	var req models.OptimizeRequest

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

	result, err := h.optimizer.Optimize(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
