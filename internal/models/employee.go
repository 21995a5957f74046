package models

import "time"

// Employee represents a member of the hotel staff roster.
type Employee struct {
	ID         string     `db:"id" json:"id"`
	FullName   string     `db:"full_name" json:"full_name"`
	Email      string     `db:"email" json:"email"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	JobTitle   string     `db:"job_title" json:"job_title"`
	Department *string    `db:"department" json:"department,omitempty"`
	Salary     *float64   `db:"salary" json:"salary,omitempty"`
	PhotoPath  *string    `db:"photo_path" json:"photo_path,omitempty"`
	Active     bool       `db:"active" json:"active"`
	HiredAt    *time.Time `db:"hired_at" json:"hired_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter captures filtering options for listing employees.
type EmployeeFilter struct {
	Search     string
	Active     *bool
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
