package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/repositories"
)

type UsageHandler struct {
	usageRepo repositories.UsageRepository
	auditRepo repositories.AuditRepository
}

func NewUsageHandler(usageRepo repositories.UsageRepository, auditRepo repositories.AuditRepository) *UsageHandler {
	return &UsageHandler{
		usageRepo: usageRepo,
		auditRepo: auditRepo,
	}
}

// HandleSummary handles GET /usage
func (h *UsageHandler) HandleSummary(c *fiber.Ctx) error {
	total, err := h.usageRepo.SumTokensByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute usage summary",
		})
	}

	return c.JSON(fiber.Map{
		"total_tokens": total,
	})
}

// HandleAuditTrail handles GET /audit/:signature. Entries belonging to
// other users are filtered out, not 403'd: the signature space is opaque
// and a miss is indistinguishable from an empty trail.
func (h *UsageHandler) HandleAuditTrail(c *fiber.Ctx) error {
	entries, err := h.auditRepo.FindBySignature(c.UserContext(), c.Params("signature"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load audit trail",
		})
	}

	userID := middleware.UserID(c)
	own := make([]models.AuditLog, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID == userID {
			own = append(own, entry)
		}
	}

	return c.JSON(own)
}
