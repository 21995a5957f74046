package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleStaff      UserRole = "STAFF"
)

// User represents a back-office admin account stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	PhotoPath    *string    `db:"photo_path" json:"photo_path,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing admin accounts.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
