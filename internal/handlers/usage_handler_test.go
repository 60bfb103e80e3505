package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"jobpilot/api/internal/models"
)

type staticUsageRepo struct {
	total int64
}

func (s *staticUsageRepo) Create(context.Context, *models.UsageLog) error {
	return nil
}

func (s *staticUsageRepo) SumTokensByUser(context.Context, string) (int64, error) {
	return s.total, nil
}

type staticAuditRepo struct {
	entries []models.AuditLog
}

func (s *staticAuditRepo) Create(context.Context, *models.AuditLog) error {
	return nil
}

func (s *staticAuditRepo) FindBySignature(context.Context, string) ([]models.AuditLog, error) {
	return s.entries, nil
}

func newUsageApp(usage *staticUsageRepo, audit *staticAuditRepo, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})

	handler := NewUsageHandler(usage, audit)
	app.Get("/usage", handler.HandleSummary)
	app.Get("/audit/:signature", handler.HandleAuditTrail)
	return app
}

func TestHandleUsageSummary(t *testing.T) {
	app := newUsageApp(&staticUsageRepo{total: 4200}, &staticAuditRepo{}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["total_tokens"] != 4200 {
		t.Fatalf("expected 4200 tokens, got %d", payload["total_tokens"])
	}
}

func TestHandleAuditTrailFiltersOtherUsers(t *testing.T) {
	audit := &staticAuditRepo{entries: []models.AuditLog{
		{UserID: "user-1", RequestSignature: "sig-a", Action: models.RequestAssessment},
		{UserID: "user-2", RequestSignature: "sig-a", Action: models.RequestAssessment},
		{UserID: "user-1", RequestSignature: "sig-a", Action: models.RequestAssessment},
	}}
	app := newUsageApp(&staticUsageRepo{}, audit, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/audit/sig-a", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var entries []models.AuditLog
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 own entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.UserID != "user-1" {
			t.Fatalf("expected only own entries, got %s", entry.UserID)
		}
	}
}
