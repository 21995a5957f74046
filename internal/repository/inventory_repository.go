package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harborview/backoffice-api/internal/models"
)

// InventoryRepository manages persistence for stocked items.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository constructs an InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = "id, name, category, quantity, unit_price, image_path, status, description, created_at, updated_at"

// List returns inventory items matching filters along with total count.
func (r *InventoryRepository) List(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, int, error) {
	base := "FROM inventory_items WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(category) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":       "name",
		"category":   "category",
		"quantity":   "quantity",
		"unit_price": "unit_price",
		"created_at": "created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", inventoryColumns, base, column, order, size, offset)
	var items []models.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inventory items: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count inventory items: %w", err)
	}

	return items, total, nil
}

// FindByID fetches an inventory item by ID.
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	query := fmt.Sprintf("SELECT %s FROM inventory_items WHERE id = $1", inventoryColumns)
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new inventory item.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO inventory_items (id, name, category, quantity, unit_price, image_path, status, description, created_at, updated_at)
		VALUES (:id, :name, :category, :quantity, :unit_price, :image_path, :status, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update modifies an existing inventory item.
func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE inventory_items SET name = :name, category = :category, quantity = :quantity, unit_price = :unit_price, image_path = :image_path, status = :status, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// UpdateStatus changes only the item's stock status.
func (r *InventoryRepository) UpdateStatus(ctx context.Context, id string, status models.InventoryStatus) error {
	const query = `UPDATE inventory_items SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update inventory status: %w", err)
	}
	return nil
}

// UpdateImagePath stores the object key of a processed item image.
func (r *InventoryRepository) UpdateImagePath(ctx context.Context, id string, imagePath *string) error {
	const query = `UPDATE inventory_items SET image_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, imagePath, time.Now().UTC()); err != nil {
		return fmt.Errorf("update inventory image: %w", err)
	}
	return nil
}

// Delete removes an inventory item.
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inventory_items WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}
