package models

import "time"

// Supplier represents a vendor the hotel purchases from.
type Supplier struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Category      string    `db:"category" json:"category"`
	Address       *string   `db:"address" json:"address,omitempty"`
	ContactPerson *string   `db:"contact_person" json:"contact_person,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SupplierFilter captures filtering options for listing suppliers.
type SupplierFilter struct {
	Search    string
	Active    *bool
	Category  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
