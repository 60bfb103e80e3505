package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"jobpilot/api/internal/config"
)

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "user-42"}`))
	}))
}

func TestIdentityClientVerify(t *testing.T) {
	srv := newIdentityServer(t)
	defer srv.Close()

	client, err := NewIdentityClient(config.AuthConfig{URL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		userID, err := client.Verify(context.Background(), "good-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if userID != "user-42" {
			t.Fatalf("expected user-42, got %s", userID)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		if _, err := client.Verify(context.Background(), "bad-token"); err == nil {
			t.Fatal("expected an error for a rejected token")
		}
	})
}

func TestIdentityClientRequiresURL(t *testing.T) {
	if _, err := NewIdentityClient(config.AuthConfig{}); err == nil {
		t.Fatal("expected construction to fail without an auth url")
	}
}

type staticVerifier struct {
	userID string
	err    error
}

func (s *staticVerifier) Verify(context.Context, string) (string, error) {
	return s.userID, s.err
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", RequireAuth(&staticVerifier{userID: "user-7"}, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("bearer token resolves user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer anything")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})
}
