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

// SupplierRepository manages persistence for suppliers.
type SupplierRepository struct {
	db *sqlx.DB
}

// NewSupplierRepository constructs a SupplierRepository.
func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = "id, name, email, phone, category, address, contact_person, active, created_at, updated_at"

// List returns suppliers matching filters along with total count.
func (r *SupplierRepository) List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, int, error) {
	base := "FROM suppliers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(COALESCE(phone, '')) LIKE $%d OR LOWER(category) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":       "name",
		"email":      "email",
		"category":   "category",
		"created_at": "created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", supplierColumns, base, column, order, size, offset)
	var suppliers []models.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	return suppliers, total, nil
}

// FindByID fetches a supplier by ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	query := fmt.Sprintf("SELECT %s FROM suppliers WHERE id = $1", supplierColumns)
	var supplier models.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// ExistsByEmail checks if another supplier uses the same email.
func (r *SupplierRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM suppliers WHERE LOWER(email) = LOWER($1)"
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
		return false, fmt.Errorf("check supplier email: %w", err)
	}
	return true, nil
}

// Create inserts a new supplier record.
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = now
	}
	supplier.UpdatedAt = now

	const query = `INSERT INTO suppliers (id, name, email, phone, category, address, contact_person, active, created_at, updated_at)
		VALUES (:id, :name, :email, :phone, :category, :address, :contact_person, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// Update modifies an existing supplier record.
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	supplier.UpdatedAt = time.Now().UTC()
	const query = `UPDATE suppliers SET name = :name, email = :email, phone = :phone, category = :category, address = :address, contact_person = :contact_person, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// SetActive flips a supplier's active flag.
func (r *SupplierRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE suppliers SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set supplier active: %w", err)
	}
	return nil
}

// Delete removes a supplier record.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM suppliers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
