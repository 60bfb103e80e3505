package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobpilot/api/internal/models"
)

var ErrTokenNotFound = errors.New("mail token not found")

type MailTokenRepository interface {
	Upsert(ctx context.Context, token *models.MailToken) error
	FindByUser(ctx context.Context, userID string) (*models.MailToken, error)
	Delete(ctx context.Context, userID string) error
}

type mailTokenRepository struct {
	db *gorm.DB
}

func NewMailTokenRepository(db *gorm.DB) MailTokenRepository {
	return &mailTokenRepository{db: db}
}

func (r *mailTokenRepository) Upsert(ctx context.Context, token *models.MailToken) error {
	token.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expiry", "updated_at"}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to upsert mail token: %w", err)
	}
	return nil
}

func (r *mailTokenRepository) FindByUser(ctx context.Context, userID string) (*models.MailToken, error) {
	var token models.MailToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find mail token: %w", err)
	}
	return &token, nil
}

func (r *mailTokenRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.MailToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete mail token: %w", err)
	}
	return nil
}
