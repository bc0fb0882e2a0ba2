package models

import "time"

// VendorCategory is the marketplace taxonomy vendors list themselves under.
type VendorCategory struct {
	ID             uint      `json:"category_id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"uniqueIndex;not null"`
	Description    string    `json:"description"`
	Icon           string    `json:"icon"`
	ParentCategory string    `json:"parent_category"`
	SortOrder      int       `json:"sort_order" gorm:"default:0"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
}
