package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harborview/backoffice-api/internal/models"
)

// GuestRepository manages persistence for hotel guests.
type GuestRepository struct {
	db *sqlx.DB
}

// NewGuestRepository constructs a GuestRepository.
func NewGuestRepository(db *sqlx.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

const guestColumns = "id, full_name, email, phone, address, nationality, id_number, active, created_at, updated_at"

// List returns guests matching filters along with total count.
func (r *GuestRepository) List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, int, error) {
	base := "FROM guests WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(COALESCE(phone, '')) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"created_at": "created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", guestColumns, base, column, order, size, offset)
	var guests []models.Guest
	if err := r.db.SelectContext(ctx, &guests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guests: %w", err)
	}

	return guests, total, nil
}

// FindByID fetches a guest by ID.
func (r *GuestRepository) FindByID(ctx context.Context, id string) (*models.Guest, error) {
	query := fmt.Sprintf("SELECT %s FROM guests WHERE id = $1", guestColumns)
	var guest models.Guest
	if err := r.db.GetContext(ctx, &guest, query, id); err != nil {
		return nil, err
	}
	return &guest, nil
}

// ExistsByEmail checks if another guest uses the same email.
func (r *GuestRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM guests WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check guest email: %w", err)
	}
	return true, nil
}

// Create inserts a new guest record.
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = now
	}
	guest.UpdatedAt = now

	const query = `INSERT INTO guests (id, full_name, email, phone, address, nationality, id_number, active, created_at, updated_at)
		VALUES (:id, :full_name, :email, :phone, :address, :nationality, :id_number, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guest); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

// Update modifies an existing guest record.
func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	guest.UpdatedAt = time.Now().UTC()
	const query = `UPDATE guests SET full_name = :full_name, email = :email, phone = :phone, address = :address, nationality = :nationality, id_number = :id_number, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, guest); err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	return nil
}

// SetActive flips a guest's active flag.
func (r *GuestRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE guests SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set guest active: %w", err)
	}
	return nil
}

// Delete removes a guest record.
func (r *GuestRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM guests WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}
