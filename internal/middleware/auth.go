package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"jobpilot/api/internal/config"
)

// TokenVerifier resolves a bearer token to a user id. The identity
// provider is an external collaborator; this is its whole contract.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// IdentityClient verifies tokens against the identity provider's user
// endpoint.
type IdentityClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewIdentityClient(cfg config.AuthConfig) (*IdentityClient, error) {
	if cfg.URL == "" {
		return nil, errors.New("auth url is not configured")
	}

	return &IdentityClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Verify implements TokenVerifier.
func (c *IdentityClient) Verify(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build identity request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider rejected token (status %d)", resp.StatusCode)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("failed to decode identity response: %w", err)
	}

	if user.ID == "" {
		return "", errors.New("identity provider returned no user id")
	}

	return user.ID, nil
}

const userIDKey = "user_id"

// RequireAuth rejects requests without a resolvable bearer token before
// any pipeline work happens.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		userID, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			logger.Debug("token verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
