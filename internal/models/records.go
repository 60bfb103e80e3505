package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestType string

const (
	RequestAssessment   RequestType = "assessment"
	RequestOptimization RequestType = "cv_optimization"
	RequestResearch     RequestType = "company_research"
)

// UsageLog is a per-call accounting record. Append-only, never updated.
type UsageLog struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string      `gorm:"type:text;not null;index" json:"user_id"`
	Model        string      `gorm:"type:text;not null" json:"model"`
	InputTokens  int         `gorm:"not null" json:"input_tokens"`
	OutputTokens int         `gorm:"not null" json:"output_tokens"`
	RequestType  RequestType `gorm:"type:text;not null" json:"request_type"`
	CreatedAt    time.Time   `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}

// AuditLog is a per-call compliance record. The request signature is an
// opaque correlation id derived from the request content, not a dedup key:
// legitimate repeats append distinct rows.
type AuditLog struct {
	ID               uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string      `gorm:"type:text;not null;index" json:"user_id"`
	Action           RequestType `gorm:"type:text;not null" json:"action"`
	RequestSignature string      `gorm:"type:text;not null;index" json:"request_signature"`
	Decision         string      `gorm:"type:jsonb" json:"decision"`
	Warnings         string      `gorm:"type:jsonb" json:"warnings,omitempty"`
	LatencyMs        int64       `gorm:"not null" json:"latency_ms"`
	CreatedAt        time.Time   `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
