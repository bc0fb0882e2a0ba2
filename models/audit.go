package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin audit log actions
const (
	ActionUserCreated          = "user_created"
	ActionUserStatusUpdated    = "user_status_updated"
	ActionImpersonationStarted = "impersonation_started"
	ActionImpersonationEnded   = "impersonation_ended"
)

// AdminAuditLog is an append-only record of admin actions.
// Rows are never updated or deleted once written.
type AdminAuditLog struct {
	ID           uint              `json:"log_id" gorm:"primaryKey"`
	AdminID      uint              `json:"admin_id" gorm:"index;not null"`
	TargetUserID *uint             `json:"target_user_id" gorm:"index"`
	Action       string            `json:"action" gorm:"index;not null"`
	Details      datatypes.JSONMap `json:"details"`
	IPAddress    string            `json:"ip_address"`
	UserAgent    string            `json:"user_agent"`
	CreatedAt    time.Time         `json:"created_at" gorm:"index"`
}

// ImpersonationSession tracks an admin acting as another account.
// Sessions die at token expiry; EndedAt is stamped on explicit end.
type ImpersonationSession struct {
	ID           uint       `json:"session_id" gorm:"primaryKey"`
	AdminID      uint       `json:"admin_id" gorm:"index;not null"`
	TargetUserID uint       `json:"target_user_id" gorm:"index;not null"`
	SessionToken string     `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"not null"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	EndedAt      *time.Time `json:"ended_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
