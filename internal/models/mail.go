package models

import "time"

// MailToken holds the stored Gmail OAuth credentials for one user.
type MailToken struct {
	UserID       string    `gorm:"type:text;primary_key" json:"user_id"`
	AccessToken  string    `gorm:"type:text;not null" json:"-"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"`
	Expiry       time.Time `gorm:"type:timestamp" json:"expiry"`
	UpdatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (MailToken) TableName() string {
	return "mail_tokens"
}

type SendMailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OAuthCallbackParams are the parsed query parameters of the provider's
// redirect back to us.
type OAuthCallbackParams struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Email     string `json:"email,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
