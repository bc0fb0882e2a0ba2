package models

import (
	"time"

	"gorm.io/datatypes"
)

// Email delivery statuses
const (
	EmailSent   = "sent"
	EmailFailed = "failed"
)

// EmailLog records every outbound email attempt, success or failure.
type EmailLog struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	UserID       *uint             `json:"user_id" gorm:"index"`
	ToEmail      string            `json:"to_email" gorm:"not null"`
	TemplateType string            `json:"template_type" gorm:"index;not null"`
	Subject      string            `json:"subject"`
	Status       string            `json:"status" gorm:"index;not null"`
	ProviderID   string            `json:"provider_id"`
	ErrorMessage string            `json:"error_message"`
	Metadata     datatypes.JSONMap `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at" gorm:"index"`
}

// EmailTemplate overrides a built-in template when present.
type EmailTemplate struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TemplateType string    `json:"template_type" gorm:"uniqueIndex;not null"`
	Subject      string    `json:"subject" gorm:"not null"`
	HTMLBody     string    `json:"html_body" gorm:"not null"`
	TextBody     string    `json:"text_body"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
