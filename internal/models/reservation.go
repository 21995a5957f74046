package models

import "time"

// ReservationStatus represents a booking's lifecycle state.
type ReservationStatus string

const (
	ReservationStatusBooked     ReservationStatus = "booked"
	ReservationStatusCheckedIn  ReservationStatus = "checked_in"
	ReservationStatusCheckedOut ReservationStatus = "checked_out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusBooked, ReservationStatusCheckedIn,
		ReservationStatusCheckedOut, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// Reservation represents a calendar booking for a room.
type Reservation struct {
	ID         string            `db:"id" json:"id"`
	Code       string            `db:"code" json:"code"`
	GuestID    string            `db:"guest_id" json:"guest_id"`
	GuestName  *string           `db:"guest_name" json:"guest_name,omitempty"`
	RoomNumber string            `db:"room_number" json:"room_number"`
	RoomType   *string           `db:"room_type" json:"room_type,omitempty"`
	CheckIn    time.Time         `db:"check_in" json:"check_in"`
	CheckOut   time.Time         `db:"check_out" json:"check_out"`
	Adults     int               `db:"adults" json:"adults"`
	Children   int               `db:"children" json:"children"`
	Status     ReservationStatus `db:"status" json:"status"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// ReservationFilter narrows down calendar bookings.
type ReservationFilter struct {
	Search    string
	Status    *ReservationStatus
	GuestID   string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
