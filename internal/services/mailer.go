package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"jobpilot/api/internal/config"
	"jobpilot/api/internal/models"
	"jobpilot/api/internal/repositories"
)

// ErrNotConnected means the user has no stored mail credentials.
var ErrNotConnected = errors.New("mail account not connected")

// ErrReconnectRequired means the provider rejected the stored credentials.
// A 401 here is not transient: the user has to go through consent again.
var ErrReconnectRequired = errors.New("mail credentials rejected, reconnect required")

// MailerService sends mail through the user's connected Gmail account,
// refreshing the stored OAuth token when it has expired.
type MailerService interface {
	AuthURL(state string) string
	HandleOAuthCallback(ctx context.Context, userID string, params models.OAuthCallbackParams) (*models.ConnectionStatus, error)
	Send(ctx context.Context, userID string, req *models.SendMailRequest) error
	Status(ctx context.Context, userID string) (*models.ConnectionStatus, error)
	Disconnect(ctx context.Context, userID string) error
}

type mailerService struct {
	oauthCfg *oauth2.Config
	tokens   repositories.MailTokenRepository
	logger   *zap.Logger
}

func NewMailerService(cfg config.GmailConfig, tokens repositories.MailTokenRepository, logger *zap.Logger) (MailerService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("gmail oauth client is not configured")
	}

	return &mailerService{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gmail.GmailSendScope},
			Endpoint:     google.Endpoint,
		},
		tokens: tokens,
		logger: logger,
	}, nil
}

// AuthURL implements MailerService.
func (m *mailerService) AuthURL(state string) string {
	// offline access so a refresh token is issued alongside the access token
	return m.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleOAuthCallback exchanges the provider's redirect-callback code for
// stored credentials. Decoupled from any UI lifecycle: input is the parsed
// callback parameters, output is a connection status.
func (m *mailerService) HandleOAuthCallback(ctx context.Context, userID string, params models.OAuthCallbackParams) (*models.ConnectionStatus, error) {
	if params.Error != "" {
		return &models.ConnectionStatus{Connected: false, Reason: params.Error}, nil
	}

	if params.Code == "" {
		return nil, &ValidationError{Field: "code", Reason: "required"}
	}

	token, err := m.oauthCfg.Exchange(ctx, params.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		// The provider only returns a refresh token on first consent;
		// on reconnects keep the one already stored.
		if existing, err := m.tokens.FindByUser(ctx, userID); err == nil {
			refreshToken = existing.RefreshToken
		}
	}

	stored := &models.MailToken{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       token.Expiry,
	}
	if err := m.tokens.Upsert(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store mail token: %w", err)
	}

	m.logger.Info("mail account connected", zap.String("user_id", userID))

	return &models.ConnectionStatus{Connected: true}, nil
}

// Send implements MailerService.
func (m *mailerService) Send(ctx context.Context, userID string, req *models.SendMailRequest) error {
	if strings.TrimSpace(req.To) == "" {
		return &ValidationError{Field: "to", Reason: "required"}
	}
	if strings.TrimSpace(req.Subject) == "" {
		return &ValidationError{Field: "subject", Reason: "required"}
	}
	if strings.TrimSpace(req.Body) == "" {
		return &ValidationError{Field: "body", Reason: "required"}
	}

	stored, err := m.tokens.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return ErrNotConnected
		}
		return err
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
	}

	// TokenSource performs the refresh exchange when the access token has
	// expired. A failed refresh means the grant was revoked.
	fresh, err := m.oauthCfg.TokenSource(ctx, token).Token()
	if err != nil {
		m.logger.Warn("mail token refresh failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return ErrReconnectRequired
	}

	if fresh.AccessToken != stored.AccessToken {
		rotated := &models.MailToken{
			UserID:       userID,
			AccessToken:  fresh.AccessToken,
			RefreshToken: stored.RefreshToken,
			Expiry:       fresh.Expiry,
		}
		if err := m.tokens.Upsert(ctx, rotated); err != nil {
			m.logger.Error("failed to persist rotated mail token",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	srv, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(fresh)))
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}

	message := &gmail.Message{Raw: EncodeMailMessage(req.To, req.Subject, req.Body)}

	if _, err := srv.Users.Messages.Send("me", message).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 401 {
			return ErrReconnectRequired
		}
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("mail sent",
		zap.String("user_id", userID),
		zap.String("to", req.To),
	)

	return nil
}

// Status implements MailerService.
func (m *mailerService) Status(ctx context.Context, userID string) (*models.ConnectionStatus, error) {
	if _, err := m.tokens.FindByUser(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return &models.ConnectionStatus{Connected: false}, nil
		}
		return nil, err
	}

	return &models.ConnectionStatus{Connected: true}, nil
}

// Disconnect drops the stored credentials. The provider-side grant stays
// until the user revokes it in their account settings.
func (m *mailerService) Disconnect(ctx context.Context, userID string) error {
	if err := m.tokens.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to disconnect mail account: %w", err)
	}

	m.logger.Info("mail account disconnected", zap.String("user_id", userID))
	return nil
}

// EncodeMailMessage builds the base64url-encoded RFC 2822 message the
// Gmail send API expects.
func EncodeMailMessage(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
