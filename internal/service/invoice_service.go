package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/export"
)

type invoiceRepository interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus) error
	Delete(ctx context.Context, id string) error
}

type invoiceGuestFinder interface {
	FindByID(ctx context.Context, id string) (*models.Guest, error)
}

// Allowed invoice transitions. Paid and cancelled are terminal.
var invoiceTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusUnpaid: {models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
}

// InvoiceItemRequest is a billed line within an invoice payload.
type InvoiceItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// CreateInvoiceRequest represents payload for billing a guest.
type CreateInvoiceRequest struct {
	GuestID       string               `json:"guest_id" validate:"required,uuid4"`
	ReservationID *string              `json:"reservation_id" validate:"omitempty,uuid4"`
	TaxRate       float64              `json:"tax_rate" validate:"gte=0,lte=1"`
	DueAt         *string              `json:"due_at" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string              `json:"notes" validate:"omitempty,max=1000"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest represents payload for amending an unpaid invoice.
type UpdateInvoiceRequest struct {
	TaxRate float64              `json:"tax_rate" validate:"gte=0,lte=1"`
	DueAt   *string              `json:"due_at" validate:"omitempty,datetime=2006-01-02"`
	Notes   *string              `json:"notes" validate:"omitempty,max=1000"`
	Items   []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceService orchestrates guest billing operations.
type InvoiceService struct {
	repo      invoiceRepository
	guests    invoiceGuestFinder
	pdf       *export.PDFExporter
	hotelName string
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(repo invoiceRepository, guests invoiceGuestFinder, pdf *export.PDFExporter, hotelName string, validate *validator.Validate, logger *zap.Logger) *InvoiceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &InvoiceService{
		repo:      repo,
		guests:    guests,
		pdf:       pdf,
		hotelName: hotelName,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns invoices plus pagination data.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, *models.Pagination, error) {
	invoices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	return invoices, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an invoice with its line items.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	return invoice, nil
}

// Create issues a new invoice. Totals are computed from the line items.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid invoice payload")
	}

	guest, err := s.guests.FindByID(ctx, req.GuestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithFields("validation failed", map[string][]string{
				"guest_id": {"does not reference a known guest"},
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guest")
	}

	dueAt, err := parseOptionalDate(req.DueAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"due_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	now := s.now()
	invoice := &models.Invoice{
		Number:        fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8])),
		GuestID:       guest.ID,
		ReservationID: req.ReservationID,
		Status:        models.InvoiceStatusUnpaid,
		IssuedAt:      now,
		DueAt:         dueAt,
		Notes:         normalizeOptional(req.Notes),
		Items:         buildItems(req.Items),
	}
	applyTotals(invoice, req.TaxRate)

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invoice")
	}
	invoice.GuestName = &guest.FullName
	return invoice, nil
}

// Update rewrites the line items of an unpaid invoice and recomputes totals.
func (s *InvoiceService) Update(ctx context.Context, id string, req UpdateInvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid invoice payload")
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status != models.InvoiceStatusUnpaid {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "only unpaid invoices can be edited")
	}

	dueAt, err := parseOptionalDate(req.DueAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"due_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	invoice.DueAt = dueAt
	invoice.Notes = normalizeOptional(req.Notes)
	invoice.Items = buildItems(req.Items)
	applyTotals(invoice, req.TaxRate)

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invoice")
	}
	return invoice, nil
}

// ChangeStatus marks an invoice paid or cancelled.
func (s *InvoiceService) ChangeStatus(ctx context.Context, id string, status models.InvoiceStatus) (*models.Invoice, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown invoice status %q", status))
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(invoiceTransitions[invoice.Status], status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus,
			fmt.Sprintf("cannot move invoice from %s to %s", invoice.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change invoice status")
	}
	invoice.Status = status
	if status == models.InvoiceStatusPaid {
		paidAt := s.now()
		invoice.PaidAt = &paidAt
	}
	return invoice, nil
}

// RenderPDF produces a printable PDF for the invoice.
func (s *InvoiceService) RenderPDF(ctx context.Context, id string) ([]byte, *models.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	doc := export.InvoiceDocument{
		HotelName: s.hotelName,
		Number:    invoice.Number,
		IssuedAt:  invoice.IssuedAt,
		DueAt:     invoice.DueAt,
		Status:    string(invoice.Status),
		Total:     invoice.Total,
	}
	if invoice.GuestName != nil {
		doc.GuestName = *invoice.GuestName
	}
	for _, item := range invoice.Items {
		doc.Lines = append(doc.Lines, export.InvoiceLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	data, err := s.pdf.RenderInvoice(doc)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice pdf")
	}
	return data, invoice, nil
}

// Delete removes an invoice along with its items.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete invoice")
	}
	return nil
}

func buildItems(reqs []InvoiceItemRequest) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.InvoiceItem{
			Description: strings.TrimSpace(r.Description),
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Amount:      float64(r.Quantity) * r.UnitPrice,
		})
	}
	return items
}

func applyTotals(invoice *models.Invoice, taxRate float64) {
	var subtotal float64
	for _, item := range invoice.Items {
		subtotal += item.Amount
	}
	invoice.Subtotal = subtotal
	invoice.Tax = subtotal * taxRate
	invoice.Total = subtotal + invoice.Tax
}
