package models

import "time"

// PurchaseOrderStatus represents where an order sits in its lifecycle.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusDelivered PurchaseOrderStatus = "delivered"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusReceived,
		PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PurchaseOrder represents goods ordered from a supplier.
type PurchaseOrder struct {
	ID           string              `db:"id" json:"id"`
	Number       string              `db:"number" json:"number"`
	SupplierID   string              `db:"supplier_id" json:"supplier_id"`
	SupplierName *string             `db:"supplier_name" json:"supplier_name,omitempty"`
	ItemName     string              `db:"item_name" json:"item_name"`
	Quantity     int                 `db:"quantity" json:"quantity"`
	UnitPrice    float64             `db:"unit_price" json:"unit_price"`
	Total        float64             `db:"total" json:"total"`
	Status       PurchaseOrderStatus `db:"status" json:"status"`
	OrderedAt    time.Time           `db:"ordered_at" json:"ordered_at"`
	ExpectedAt   *time.Time          `db:"expected_at" json:"expected_at,omitempty"`
	Notes        *string             `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// PurchaseOrderFilter captures filtering options for listing orders.
type PurchaseOrderFilter struct {
	Search     string
	Status     *PurchaseOrderStatus
	SupplierID string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
