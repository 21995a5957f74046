package models

import "time"

// InvoiceStatus represents the payment lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice represents a guest bill.
type Invoice struct {
	ID            string        `db:"id" json:"id"`
	Number        string        `db:"number" json:"number"`
	GuestID       string        `db:"guest_id" json:"guest_id"`
	GuestName     *string       `db:"guest_name" json:"guest_name,omitempty"`
	ReservationID *string       `db:"reservation_id" json:"reservation_id,omitempty"`
	Subtotal      float64       `db:"subtotal" json:"subtotal"`
	Tax           float64       `db:"tax" json:"tax"`
	Total         float64       `db:"total" json:"total"`
	Status        InvoiceStatus `db:"status" json:"status"`
	IssuedAt      time.Time     `db:"issued_at" json:"issued_at"`
	DueAt         *time.Time    `db:"due_at" json:"due_at,omitempty"`
	PaidAt        *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`

	Items []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is a billed line on an invoice.
type InvoiceItem struct {
	ID          string  `db:"id" json:"id"`
	InvoiceID   string  `db:"invoice_id" json:"invoice_id"`
	Description string  `db:"description" json:"description"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Amount      float64 `db:"amount" json:"amount"`
}

// InvoiceFilter captures filtering options for listing invoices.
type InvoiceFilter struct {
	Search    string
	Status    *InvoiceStatus
	GuestID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
