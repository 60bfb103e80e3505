package models

import (
	"time"

	"github.com/google/uuid"
)

// CoverLetter is a generated letter the caller chose to keep. Persisting
// the assessment output is the caller's decision, not the pipeline's.
type CoverLetter struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:text;not null;index" json:"user_id"`
	Company   string    `gorm:"type:text" json:"company"`
	JobTitle  string    `gorm:"type:text" json:"job_title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (CoverLetter) TableName() string {
	return "cover_letters"
}

type SaveCoverLetterRequest struct {
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Content  string `json:"content"`
}
