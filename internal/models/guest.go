package models

import "time"

// Guest represents a hotel client on file.
type Guest struct {
	ID          string    `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"full_name"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Address     *string   `db:"address" json:"address,omitempty"`
	Nationality *string   `db:"nationality" json:"nationality,omitempty"`
	IDNumber    *string   `db:"id_number" json:"id_number,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GuestFilter captures filtering options for listing guests.
type GuestFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
