package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleRestaurant UserRole = "restaurant"
	RoleVendor     UserRole = "vendor"
	RoleAdmin      UserRole = "admin"
)

// UserStatus is the account activation status set by admins
type UserStatus string

const (
	StatusActive          UserStatus = "active"
	StatusInactive        UserStatus = "inactive"
	StatusPendingApproval UserStatus = "pending_approval"
)

type User struct {
	ID           uint     `json:"user_id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"index;not null"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Description  string   `json:"description"`

	// Moderation fields — accounts are soft-deactivated, never deleted
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	Status             UserStatus `json:"status" gorm:"index;default:'active'"`
	DeactivationReason *string    `json:"deactivation_reason"`
	DeactivatedBy      *uint      `json:"deactivated_by"`
	DeactivatedAt      *time.Time `json:"deactivated_at"`
	LastLoginAt        *time.Time `json:"last_login_at"`

	// Vendor storefront profile, unused for restaurants and admins
	BusinessType    string  `json:"business_type,omitempty"`
	Specialties     string  `json:"specialties,omitempty"` // comma-separated
	AverageRating   float64 `json:"average_rating" gorm:"default:0"`
	ReviewCount     int     `json:"review_count" gorm:"default:0"`
	BusinessHours   string  `json:"business_hours,omitempty"`
	DeliveryAreas   string  `json:"delivery_areas,omitempty"`
	MinimumOrder    float64 `json:"minimum_order" gorm:"default:0"`
	PaymentTerms    string  `json:"payment_terms,omitempty"`
	EstablishedYear string  `json:"established_year,omitempty"`
	Categories      string  `json:"categories,omitempty"` // comma-separated marketplace category names

	// Guards read-modify-write updates (last-login stamp)
	Version int `json:"-" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserEventLog records user-initiated events (login, profile updates)
type UserEventLog struct {
	ID        uint              `json:"event_id" gorm:"primaryKey"`
	UserID    uint              `json:"user_id" gorm:"index;not null"`
	EventType string            `json:"event_type" gorm:"not null"`
	Details   datatypes.JSONMap `json:"details"`
	IPAddress string            `json:"ip_address"`
	UserAgent string            `json:"user_agent"`
	CreatedAt time.Time         `json:"created_at"`
}
