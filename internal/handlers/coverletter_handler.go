package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/repositories"
)

type CoverLetterHandler struct {
	letterRepo repositories.CoverLetterRepository
}

func NewCoverLetterHandler(letterRepo repositories.CoverLetterRepository) *CoverLetterHandler {
	return &CoverLetterHandler{letterRepo: letterRepo}
}

// HandleSave handles POST /cover-letters
func (h *CoverLetterHandler) HandleSave(c *fiber.Ctx) error {
	var req models.SaveCoverLetterRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content required",
		})
	}

	letter := &models.CoverLetter{
		ID:       uuid.New(),
		UserID:   middleware.UserID(c),
		Company:  strings.TrimSpace(req.Company),
		JobTitle: strings.TrimSpace(req.JobTitle),
		Content:  req.Content,
	}

	if err := h.letterRepo.Create(c.UserContext(), letter); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save cover letter",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(letter)
}

// HandleList handles GET /cover-letters
func (h *CoverLetterHandler) HandleList(c *fiber.Ctx) error {
	letters, err := h.letterRepo.FindByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list cover letters",
		})
	}

	return c.JSON(letters)
}

// HandleDelete handles DELETE /cover-letters/:id
func (h *CoverLetterHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid cover letter id",
		})
	}

	if err := h.letterRepo.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "cover letter not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
