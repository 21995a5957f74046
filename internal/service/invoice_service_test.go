package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/export"
)

type mockInvoiceRepo struct {
	items map[string]*models.Invoice
}

func (m *mockInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, int, error) {
	out := make([]models.Invoice, 0, len(m.items))
	for _, i := range m.items {
		out = append(out, *i)
	}
	return out, len(out), nil
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	if i, ok := m.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if m.items == nil {
		m.items = make(map[string]*models.Invoice)
	}
	if invoice.ID == "" {
		invoice.ID = "generated"
	}
	cp := *invoice
	m.items[invoice.ID] = &cp
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	cp := *invoice
	m.items[invoice.ID] = &cp
	return nil
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	if i, ok := m.items[id]; ok {
		i.Status = status
	}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func newInvoiceService(repo *mockInvoiceRepo) *InvoiceService {
	guests := &mockGuestFinder{guests: map[string]*models.Guest{
		testGuestID: {ID: testGuestID, FullName: "Ada Guest", Active: true},
	}}
	return NewInvoiceService(repo, guests, export.NewPDFExporter(), "Harborview Hotel", validator.New(), zap.NewNop())
}

func TestInvoiceServiceCreateComputesTotals(t *testing.T) {
	repo := &mockInvoiceRepo{}
	svc := newInvoiceService(repo)

	invoice, err := svc.Create(context.Background(), CreateInvoiceRequest{
		GuestID: testGuestID,
		TaxRate: 0.1,
		Items: []InvoiceItemRequest{
			{Description: "Deluxe room, 3 nights", Quantity: 3, UnitPrice: 120},
			{Description: "Minibar", Quantity: 2, UnitPrice: 15},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	assert.Contains(t, invoice.Number, "INV-")
	assert.InDelta(t, 390.0, invoice.Subtotal, 0.001)
	assert.InDelta(t, 39.0, invoice.Tax, 0.001)
	assert.InDelta(t, 429.0, invoice.Total, 0.001)
	require.Len(t, invoice.Items, 2)
	assert.InDelta(t, 360.0, invoice.Items[0].Amount, 0.001)
}

func TestInvoiceServiceCreateRequiresItems(t *testing.T) {
	svc := newInvoiceService(&mockInvoiceRepo{})

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		GuestID: testGuestID,
		Items:   nil,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "items")
}

func TestInvoiceServiceChangeStatusStampsPaidAt(t *testing.T) {
	repo := &mockInvoiceRepo{items: map[string]*models.Invoice{
		"inv1": {ID: "inv1", Status: models.InvoiceStatusUnpaid},
	}}
	svc := newInvoiceService(repo)

	invoice, err := svc.ChangeStatus(context.Background(), "inv1", models.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidAt)

	_, err = svc.ChangeStatus(context.Background(), "inv1", models.InvoiceStatusUnpaid)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestInvoiceServiceUpdateFrozenAfterPayment(t *testing.T) {
	repo := &mockInvoiceRepo{items: map[string]*models.Invoice{
		"inv1": {ID: "inv1", Status: models.InvoiceStatusPaid},
	}}
	svc := newInvoiceService(repo)

	_, err := svc.Update(context.Background(), "inv1", UpdateInvoiceRequest{
		Items: []InvoiceItemRequest{{Description: "Room", Quantity: 1, UnitPrice: 100}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestInvoiceServiceRenderPDF(t *testing.T) {
	guestName := "Ada Guest"
	repo := &mockInvoiceRepo{items: map[string]*models.Invoice{
		"inv1": {
			ID:        "inv1",
			Number:    "INV-20260820-ABCDEF12",
			GuestName: &guestName,
			Status:    models.InvoiceStatusUnpaid,
			Total:     429,
			Items: []models.InvoiceItem{
				{Description: "Deluxe room", Quantity: 3, UnitPrice: 120, Amount: 360},
			},
		},
	}}
	svc := newInvoiceService(repo)

	data, invoice, err := svc.RenderPDF(context.Background(), "inv1")
	require.NoError(t, err)
	assert.Equal(t, "INV-20260820-ABCDEF12", invoice.Number)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}
