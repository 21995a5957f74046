package models

import "time"

// InventoryStatus represents the stock status of an inventory item.
type InventoryStatus string

const (
	InventoryStatusAvailable InventoryStatus = "available"
	InventoryStatusSoldOut   InventoryStatus = "sold_out"
)

// Valid returns true when the status is a supported value.
func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryStatusAvailable, InventoryStatusSoldOut:
		return true
	default:
		return false
	}
}

// InventoryItem represents a stocked item (minibar, linen, amenities).
type InventoryItem struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Category    string          `db:"category" json:"category"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   float64         `db:"unit_price" json:"unit_price"`
	ImagePath   *string         `db:"image_path" json:"image_path,omitempty"`
	Status      InventoryStatus `db:"status" json:"status"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// InventoryFilter captures filtering options for listing inventory items.
type InventoryFilter struct {
	Search    string
	Status    *InventoryStatus
	Category  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
