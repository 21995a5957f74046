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

// PurchaseOrderRepository manages persistence for supplier purchase orders.
type PurchaseOrderRepository struct {
	db *sqlx.DB
}

// NewPurchaseOrderRepository constructs a PurchaseOrderRepository.
func NewPurchaseOrderRepository(db *sqlx.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

const purchaseOrderColumns = "po.id, po.number, po.supplier_id, s.name AS supplier_name, po.item_name, po.quantity, po.unit_price, po.total, po.status, po.ordered_at, po.expected_at, po.notes, po.created_at, po.updated_at"

// List returns purchase orders matching filters along with total count.
func (r *PurchaseOrderRepository) List(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int, error) {
	base := "FROM purchase_orders po LEFT JOIN suppliers s ON s.id = po.supplier_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("po.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.SupplierID != "" {
		conditions = append(conditions, fmt.Sprintf("po.supplier_id = $%d", len(args)+1))
		args = append(args, filter.SupplierID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(po.number) LIKE $%d OR LOWER(po.item_name) LIKE $%d OR LOWER(COALESCE(s.name, '')) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"number":     "po.number",
		"item_name":  "po.item_name",
		"total":      "po.total",
		"ordered_at": "po.ordered_at",
		"created_at": "po.created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	if column == "created_at" {
		column = "po.created_at"
	}
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", purchaseOrderColumns, base, column, order, size, offset)
	var orders []models.PurchaseOrder
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}

	return orders, total, nil
}

// FindByID fetches a purchase order by ID.
func (r *PurchaseOrderRepository) FindByID(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM purchase_orders po LEFT JOIN suppliers s ON s.id = po.supplier_id WHERE po.id = $1", purchaseOrderColumns)
	var order models.PurchaseOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts a new purchase order.
func (r *PurchaseOrderRepository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	const query = `INSERT INTO purchase_orders (id, number, supplier_id, item_name, quantity, unit_price, total, status, ordered_at, expected_at, notes, created_at, updated_at)
		VALUES (:id, :number, :supplier_id, :item_name, :quantity, :unit_price, :total, :status, :ordered_at, :expected_at, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// Update modifies an existing purchase order.
func (r *PurchaseOrderRepository) Update(ctx context.Context, order *models.PurchaseOrder) error {
	order.UpdatedAt = time.Now().UTC()
	const query = `UPDATE purchase_orders SET number = :number, supplier_id = :supplier_id, item_name = :item_name, quantity = :quantity, unit_price = :unit_price, total = :total, status = :status, ordered_at = :ordered_at, expected_at = :expected_at, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// UpdateStatus changes only the order's lifecycle status.
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) error {
	const query = `UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// Delete removes a purchase order.
func (r *PurchaseOrderRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM purchase_orders WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}
