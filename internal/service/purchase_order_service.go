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
)

type purchaseOrderRepository interface {
	List(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int, error)
	FindByID(ctx context.Context, id string) (*models.PurchaseOrder, error)
	Create(ctx context.Context, order *models.PurchaseOrder) error
	Update(ctx context.Context, order *models.PurchaseOrder) error
	UpdateStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) error
	Delete(ctx context.Context, id string) error
}

type orderSupplierFinder interface {
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
}

// Allowed purchase order transitions. Delivered and cancelled are terminal.
var purchaseOrderTransitions = map[models.PurchaseOrderStatus][]models.PurchaseOrderStatus{
	models.PurchaseOrderStatusPending:  {models.PurchaseOrderStatusReceived, models.PurchaseOrderStatusCancelled},
	models.PurchaseOrderStatusReceived: {models.PurchaseOrderStatusDelivered, models.PurchaseOrderStatusCancelled},
}

// CreatePurchaseOrderRequest represents payload for ordering goods.
type CreatePurchaseOrderRequest struct {
	SupplierID string  `json:"supplier_id" validate:"required,uuid4"`
	ItemName   string  `json:"item_name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	ExpectedAt *string `json:"expected_at" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdatePurchaseOrderRequest represents payload for amending an order.
type UpdatePurchaseOrderRequest struct {
	SupplierID string  `json:"supplier_id" validate:"required,uuid4"`
	ItemName   string  `json:"item_name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	ExpectedAt *string `json:"expected_at" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

// PurchaseOrderService orchestrates procurement operations.
type PurchaseOrderService struct {
	repo      purchaseOrderRepository
	suppliers orderSupplierFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseOrderService constructs a PurchaseOrderService.
func NewPurchaseOrderService(repo purchaseOrderRepository, suppliers orderSupplierFinder, validate *validator.Validate, logger *zap.Logger) *PurchaseOrderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{repo: repo, suppliers: suppliers, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns purchase orders plus pagination data.
func (s *PurchaseOrderService) List(ctx context.Context, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, *models.Pagination, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchase orders")
	}
	return orders, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a purchase order by id.
func (s *PurchaseOrderService) Get(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase order")
	}
	return order, nil
}

// Create places a new purchase order against a known supplier.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid purchase order payload")
	}

	supplier, err := s.ensureSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	expectedAt, err := parseOptionalDate(req.ExpectedAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"expected_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	now := s.now()
	order := &models.PurchaseOrder{
		Number:     s.generateNumber(now),
		SupplierID: supplier.ID,
		ItemName:   strings.TrimSpace(req.ItemName),
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Total:      float64(req.Quantity) * req.UnitPrice,
		Status:     models.PurchaseOrderStatusPending,
		OrderedAt:  now,
		ExpectedAt: expectedAt,
		Notes:      normalizeOptional(req.Notes),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create purchase order")
	}
	order.SupplierName = &supplier.Name
	return order, nil
}

// Update amends a pending purchase order. Orders past pending are frozen.
func (s *PurchaseOrderService) Update(ctx context.Context, id string, req UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid purchase order payload")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.PurchaseOrderStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "only pending orders can be edited")
	}

	supplier, err := s.ensureSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	expectedAt, err := parseOptionalDate(req.ExpectedAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"expected_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	order.SupplierID = supplier.ID
	order.ItemName = strings.TrimSpace(req.ItemName)
	order.Quantity = req.Quantity
	order.UnitPrice = req.UnitPrice
	order.Total = float64(req.Quantity) * req.UnitPrice
	order.ExpectedAt = expectedAt
	order.Notes = normalizeOptional(req.Notes)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update purchase order")
	}
	order.SupplierName = &supplier.Name
	return order, nil
}

// ChangeStatus advances an order along its lifecycle.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) (*models.PurchaseOrder, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown purchase order status %q", status))
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(purchaseOrderTransitions[order.Status], status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change order status")
	}
	order.Status = status
	return order, nil
}

// Delete removes a purchase order.
func (s *PurchaseOrderService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete purchase order")
	}
	return nil
}

func (s *PurchaseOrderService) ensureSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithFields("validation failed", map[string][]string{
				"supplier_id": {"does not reference a known supplier"},
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}
	if !supplier.Active {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"supplier_id": {"references an inactive supplier"},
		})
	}
	return supplier, nil
}

func (s *PurchaseOrderService) generateNumber(now time.Time) string {
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func transitionAllowed[T comparable](allowed []T, target T) bool {
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}
