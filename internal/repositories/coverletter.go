package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobpilot/api/internal/models"
)

type CoverLetterRepository interface {
	Create(ctx context.Context, letter *models.CoverLetter) error
	FindByUser(ctx context.Context, userID string) ([]models.CoverLetter, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type coverLetterRepository struct {
	db *gorm.DB
}

func NewCoverLetterRepository(db *gorm.DB) CoverLetterRepository {
	return &coverLetterRepository{db: db}
}

func (r *coverLetterRepository) Create(ctx context.Context, letter *models.CoverLetter) error {
	if err := r.db.WithContext(ctx).Create(letter).Error; err != nil {
		return fmt.Errorf("failed to create cover letter: %w", err)
	}
	return nil
}

func (r *coverLetterRepository) FindByUser(ctx context.Context, userID string) ([]models.CoverLetter, error) {
	var letters []models.CoverLetter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&letters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cover letters: %w", err)
	}
	return letters, nil
}

func (r *coverLetterRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CoverLetter{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete cover letter: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cover letter not found")
	}

	return nil
}
