package models

import (
	"time"

	"gorm.io/datatypes"
)

// InventoryCategory groups a vendor's items. Name is unique per vendor.
// Deletion is always a soft is_active=false flip.
type InventoryCategory struct {
	ID               uint      `json:"category_id" gorm:"primaryKey"`
	VendorID         uint      `json:"vendor_id" gorm:"index;not null"`
	Name             string    `json:"name" gorm:"not null"`
	Description      string    `json:"description"`
	ParentCategoryID *uint     `json:"parent_category_id"`
	IsActive         bool      `json:"is_active" gorm:"default:true"`
	SortOrder        int       `json:"sort_order" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InventoryItem is a product or service a vendor offers. An item belongs
// to exactly one active category.
type InventoryItem struct {
	ID          uint   `json:"item_id" gorm:"primaryKey"`
	VendorID    uint   `json:"vendor_id" gorm:"index;not null"`
	CategoryID  uint   `json:"category_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Brand       string `json:"brand"`

	UnitOfMeasure string  `json:"unit_of_measure" gorm:"default:'each'"`
	BasePrice     float64 `json:"base_price" gorm:"default:0"`
	CostPrice     float64 `json:"cost_price" gorm:"default:0"`
	TaxRate       float64 `json:"tax_rate" gorm:"default:0"`

	IsActive   bool `json:"is_active" gorm:"default:true"`
	IsFeatured bool `json:"is_featured" gorm:"default:false"`

	MinimumOrderQuantity int  `json:"minimum_order_quantity" gorm:"default:1"`
	MaximumOrderQuantity *int `json:"maximum_order_quantity"`
	LeadTimeDays         int  `json:"lead_time_days" gorm:"default:0"`

	Specifications datatypes.JSONMap `json:"specifications"`
	Tags           string            `json:"tags"` // comma-separated, searchable

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InventorySKU is a priced, stocked variant of an item.
// AvailableStock is always maintained as CurrentStock - ReservedStock.
type InventorySKU struct {
	ID       uint   `json:"sku_id" gorm:"primaryKey"`
	VendorID uint   `json:"vendor_id" gorm:"index;not null"`
	ItemID   uint   `json:"item_id" gorm:"index;not null"`
	SKUCode  string `json:"sku_code" gorm:"uniqueIndex;not null"`

	VariantName string            `json:"variant_name"`
	Attributes  datatypes.JSONMap `json:"attributes"`

	Price         float64 `json:"price" gorm:"not null"`
	CostPrice     float64 `json:"cost_price" gorm:"default:0"`
	DiscountPrice *float64 `json:"discount_price"`

	CurrentStock      int `json:"current_stock" gorm:"default:0"`
	ReservedStock     int `json:"reserved_stock" gorm:"default:0"`
	AvailableStock    int `json:"available_stock" gorm:"default:0"`
	LowStockThreshold int `json:"low_stock_threshold" gorm:"default:0"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	// Guards concurrent stock adjustments
	Version int `json:"-" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
