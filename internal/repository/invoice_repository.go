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

// InvoiceRepository manages persistence for guest invoices and their line items.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = "i.id, i.number, i.guest_id, g.full_name AS guest_name, i.reservation_id, i.subtotal, i.tax, i.total, i.status, i.issued_at, i.due_at, i.paid_at, i.notes, i.created_at, i.updated_at"

// List returns invoices matching filters along with total count.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error) {
	base := "FROM invoices i LEFT JOIN guests g ON g.id = i.guest_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.GuestID != "" {
		conditions = append(conditions, fmt.Sprintf("i.guest_id = $%d", len(args)+1))
		args = append(args, filter.GuestID)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(i.number) LIKE $%d OR LOWER(COALESCE(g.full_name, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"number":     "i.number",
		"total":      "i.total",
		"issued_at":  "i.issued_at",
		"created_at": "i.created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	if column == "created_at" {
		column = "i.created_at"
	}
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", invoiceColumns, base, column, order, size, offset)
	var invoices []models.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	return invoices, total, nil
}

// FindByID fetches an invoice and its line items.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices i LEFT JOIN guests g ON g.id = i.guest_id WHERE i.id = $1", invoiceColumns)
	var invoice models.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, err
	}

	const itemsQuery = `SELECT id, invoice_id, description, quantity, unit_price, amount FROM invoice_items WHERE invoice_id = $1 ORDER BY description`
	if err := r.db.SelectContext(ctx, &invoice.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}
	return &invoice, nil
}

// Create inserts a new invoice together with its line items.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invoice tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO invoices (id, number, guest_id, reservation_id, subtotal, tax, total, status, issued_at, due_at, paid_at, notes, created_at, updated_at)
		VALUES (:id, :number, :guest_id, :reservation_id, :subtotal, :tax, :total, :status, :issued_at, :due_at, :paid_at, :notes, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	if err := r.insertItems(ctx, tx, invoice); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice: %w", err)
	}
	return nil
}

// Update modifies an invoice, replacing its line items wholesale.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invoice tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE invoices SET number = :number, guest_id = :guest_id, reservation_id = :reservation_id, subtotal = :subtotal, tax = :tax, total = :total, status = :status, issued_at = :issued_at, due_at = :due_at, paid_at = :paid_at, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, invoice); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("clear invoice items: %w", err)
	}
	if err := r.insertItems(ctx, tx, invoice); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice: %w", err)
	}
	return nil
}

// UpdateStatus changes only the invoice's payment status, stamping paid_at when paid.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	now := time.Now().UTC()
	var paidAt *time.Time
	if status == models.InvoiceStatusPaid {
		paidAt = &now
	}
	const query = `UPDATE invoices SET status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, paidAt, now); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// Delete removes an invoice; line items are removed via cascade.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM invoices WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) insertItems(ctx context.Context, tx *sqlx.Tx, invoice *models.Invoice) error {
	const itemQuery = `INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount)
		VALUES (:id, :invoice_id, :description, :quantity, :unit_price, :amount)`
	for idx := range invoice.Items {
		item := &invoice.Items[idx]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.InvoiceID = invoice.ID
		if _, err := tx.NamedExecContext(ctx, itemQuery, item); err != nil {
			return fmt.Errorf("create invoice item: %w", err)
		}
	}
	return nil
}
