package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"jobpilot/api/internal/models"
)

// UsageRepository appends accounting records. There is deliberately no
// update or delete: usage_logs is append-only.
type UsageRepository interface {
	Create(ctx context.Context, entry *models.UsageLog) error
	SumTokensByUser(ctx context.Context, userID string) (int64, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(ctx context.Context, entry *models.UsageLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create usage log: %w", err)
	}
	return nil
}

func (r *usageRepository) SumTokensByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageLog{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(input_tokens + output_tokens), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum usage tokens: %w", err)
	}
	return total, nil
}
