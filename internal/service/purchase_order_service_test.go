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
)

type mockPurchaseOrderRepo struct {
	items         map[string]*models.PurchaseOrder
	statusChanges map[string]models.PurchaseOrderStatus
	deleted       []string
}

func (m *mockPurchaseOrderRepo) List(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int, error) {
	out := make([]models.PurchaseOrder, 0, len(m.items))
	for _, o := range m.items {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockPurchaseOrderRepo) FindByID(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	if o, ok := m.items[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPurchaseOrderRepo) Create(ctx context.Context, order *models.PurchaseOrder) error {
	if m.items == nil {
		m.items = make(map[string]*models.PurchaseOrder)
	}
	if order.ID == "" {
		order.ID = "generated"
	}
	cp := *order
	m.items[order.ID] = &cp
	return nil
}

func (m *mockPurchaseOrderRepo) Update(ctx context.Context, order *models.PurchaseOrder) error {
	cp := *order
	m.items[order.ID] = &cp
	return nil
}

func (m *mockPurchaseOrderRepo) UpdateStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) error {
	if m.statusChanges == nil {
		m.statusChanges = make(map[string]models.PurchaseOrderStatus)
	}
	m.statusChanges[id] = status
	if o, ok := m.items[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockPurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockSupplierFinder struct {
	suppliers map[string]*models.Supplier
}

func (m *mockSupplierFinder) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	if s, ok := m.suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

const testSupplierID = "b3b7c8f0-8a6d-4c7e-9f2a-1d2e3f4a5b6c"

func newOrderService(repo *mockPurchaseOrderRepo, active bool) *PurchaseOrderService {
	suppliers := &mockSupplierFinder{suppliers: map[string]*models.Supplier{
		testSupplierID: {ID: testSupplierID, Name: "Linen Co", Active: active},
	}}
	return NewPurchaseOrderService(repo, suppliers, validator.New(), zap.NewNop())
}

func TestPurchaseOrderServiceCreate(t *testing.T) {
	repo := &mockPurchaseOrderRepo{}
	svc := newOrderService(repo, true)

	order, err := svc.Create(context.Background(), CreatePurchaseOrderRequest{
		SupplierID: testSupplierID,
		ItemName:   "Bath towels",
		Quantity:   40,
		UnitPrice:  12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderStatusPending, order.Status)
	assert.Equal(t, 500.0, order.Total)
	assert.Contains(t, order.Number, "PO-")
	require.NotNil(t, order.SupplierName)
	assert.Equal(t, "Linen Co", *order.SupplierName)
}

func TestPurchaseOrderServiceCreateUnknownSupplier(t *testing.T) {
	svc := newOrderService(&mockPurchaseOrderRepo{}, true)

	_, err := svc.Create(context.Background(), CreatePurchaseOrderRequest{
		SupplierID: "0b0b0b0b-0b0b-4b0b-8b0b-0b0b0b0b0b0b",
		ItemName:   "Bath towels",
		Quantity:   1,
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "supplier_id")
}

func TestPurchaseOrderServiceCreateInactiveSupplier(t *testing.T) {
	svc := newOrderService(&mockPurchaseOrderRepo{}, false)

	_, err := svc.Create(context.Background(), CreatePurchaseOrderRequest{
		SupplierID: testSupplierID,
		ItemName:   "Bath towels",
		Quantity:   1,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "supplier_id")
}

func TestPurchaseOrderServiceCreateValidation(t *testing.T) {
	svc := newOrderService(&mockPurchaseOrderRepo{}, true)

	_, err := svc.Create(context.Background(), CreatePurchaseOrderRequest{
		SupplierID: testSupplierID,
		ItemName:   "",
		Quantity:   0,
	})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "item_name")
	assert.Contains(t, appErr.Fields, "quantity")
}

func TestPurchaseOrderServiceUpdateFrozenAfterPending(t *testing.T) {
	repo := &mockPurchaseOrderRepo{items: map[string]*models.PurchaseOrder{
		"o1": {ID: "o1", SupplierID: testSupplierID, ItemName: "Soap", Quantity: 5, Status: models.PurchaseOrderStatusReceived},
	}}
	svc := newOrderService(repo, true)

	_, err := svc.Update(context.Background(), "o1", UpdatePurchaseOrderRequest{
		SupplierID: testSupplierID,
		ItemName:   "Soap bars",
		Quantity:   10,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestPurchaseOrderServiceStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    models.PurchaseOrderStatus
		to      models.PurchaseOrderStatus
		allowed bool
	}{
		{"pending to received", models.PurchaseOrderStatusPending, models.PurchaseOrderStatusReceived, true},
		{"pending to cancelled", models.PurchaseOrderStatusPending, models.PurchaseOrderStatusCancelled, true},
		{"pending to delivered", models.PurchaseOrderStatusPending, models.PurchaseOrderStatusDelivered, false},
		{"received to delivered", models.PurchaseOrderStatusReceived, models.PurchaseOrderStatusDelivered, true},
		{"delivered is terminal", models.PurchaseOrderStatusDelivered, models.PurchaseOrderStatusPending, false},
		{"cancelled is terminal", models.PurchaseOrderStatusCancelled, models.PurchaseOrderStatusReceived, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockPurchaseOrderRepo{items: map[string]*models.PurchaseOrder{
				"o1": {ID: "o1", Status: tc.from},
			}}
			svc := newOrderService(repo, true)

			order, err := svc.ChangeStatus(context.Background(), "o1", tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.Status)
				assert.Equal(t, tc.to, repo.statusChanges["o1"])
			} else {
				require.Error(t, err)
				assert.Empty(t, repo.statusChanges)
			}
		})
	}
}

func TestPurchaseOrderServiceDelete(t *testing.T) {
	repo := &mockPurchaseOrderRepo{items: map[string]*models.PurchaseOrder{
		"o1": {ID: "o1", Status: models.PurchaseOrderStatusPending},
	}}
	svc := newOrderService(repo, true)

	require.NoError(t, svc.Delete(context.Background(), "o1"))
	assert.Equal(t, []string{"o1"}, repo.deleted)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
}
