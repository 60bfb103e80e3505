package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/services"
)

type MailHandler struct {
	mailer services.MailerService
}

func NewMailHandler(mailer services.MailerService) *MailHandler {
	return &MailHandler{mailer: mailer}
}

// HandleConnect handles GET /mail/connect
func (h *MailHandler) HandleConnect(c *fiber.Ctx) error {
	// The user id doubles as the OAuth state so the callback can be
	// correlated with the initiating account.
	return c.JSON(fiber.Map{
		"auth_url": h.mailer.AuthURL(middleware.UserID(c)),
	})
}

// HandleOAuthCallback handles GET /mail/oauth/callback
func (h *MailHandler) HandleOAuthCallback(c *fiber.Ctx) error {
	var params models.OAuthCallbackParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid callback parameters",
		})
	}

	status, err := h.mailer.HandleOAuthCallback(c.UserContext(), middleware.UserID(c), params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(status)
}

// HandleSend handles POST /mail/send
func (h *MailHandler) HandleSend(c *fiber.Ctx) error {
	var req models.SendMailRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	err := h.mailer.Send(c.UserContext(), middleware.UserID(c), &req)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"sent": true})
	case errors.Is(err, services.ErrNotConnected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mail account not connected",
		})
	case errors.Is(err, services.ErrReconnectRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "mail credentials expired, reconnect required",
		})
	default:
		return respondError(c, err)
	}
}

// HandleDisconnect handles DELETE /mail/connection
func (h *MailHandler) HandleDisconnect(c *fiber.Ctx) error {
	if err := h.mailer.Disconnect(c.UserContext(), middleware.UserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to disconnect mail account",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStatus handles GET /mail/status
func (h *MailHandler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.mailer.Status(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check mail connection",
		})
	}

	return c.JSON(status)
}
