package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"jobpilot/api/internal/models"
)

// AuditRepository appends compliance records. Append-only: repeated
// signatures are legitimate and never collapsed.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindBySignature(ctx context.Context, signature string) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) FindBySignature(ctx context.Context, signature string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("request_signature = ?", signature).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find audit logs: %w", err)
	}
	return entries, nil
}
