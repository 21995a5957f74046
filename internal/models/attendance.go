package models

import "time"

// AttendanceStatus represents the status for employee attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord represents one employee's attendance for one date.
// One record exists per employee and date.
type AttendanceRecord struct {
	ID           string           `db:"id" json:"id"`
	EmployeeID   string           `db:"employee_id" json:"employee_id"`
	EmployeeName *string          `db:"employee_name" json:"employee_name,omitempty"`
	Date         time.Time        `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	CheckInTime  *time.Time       `db:"check_in_time" json:"check_in_time,omitempty"`
	CheckOutTime *time.Time       `db:"check_out_time" json:"check_out_time,omitempty"`
	Notes        *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter defines query filters for attendance listings.
type AttendanceFilter struct {
	Search     string
	EmployeeID string
	Status     *AttendanceStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
