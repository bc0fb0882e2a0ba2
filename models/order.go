package models

import "time"

// OrderStatus represents all possible states of a supply order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderFulfilled OrderStatus = "fulfilled"
)

// PartySnapshot is the contact info of one order party, denormalized at
// creation time so later profile edits do not rewrite order history.
type PartySnapshot struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type Order struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RestaurantID uint `json:"restaurant_id" gorm:"index;not null"`
	VendorID     uint `json:"vendor_id" gorm:"index;not null"`

	Restaurant PartySnapshot `json:"restaurant" gorm:"embedded;embeddedPrefix:restaurant_"`
	Vendor     PartySnapshot `json:"vendor" gorm:"embedded;embeddedPrefix:vendor_"`

	ItemsText string      `json:"items_text" gorm:"not null"`
	Status    OrderStatus `json:"status" gorm:"index;not null;default:'pending'"`
	Notes     string      `json:"notes"`

	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderStatusHistory tracks every status change on an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
