package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type supplierRepository interface {
	List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, int, error)
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateSupplierRequest represents payload for registering a supplier.
type CreateSupplierRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Category      string  `json:"category" validate:"required,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=200"`
}

// UpdateSupplierRequest represents payload for updating a supplier.
type UpdateSupplierRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Category      string  `json:"category" validate:"required,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=200"`
}

// SupplierService orchestrates supplier registry operations.
type SupplierService struct {
	repo      supplierRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSupplierService constructs a SupplierService.
func NewSupplierService(repo supplierRepository, validate *validator.Validate, logger *zap.Logger) *SupplierService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{repo: repo, validator: validate, logger: logger}
}

// List returns suppliers plus pagination data.
func (s *SupplierService) List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, *models.Pagination, error) {
	suppliers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suppliers")
	}
	return suppliers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a supplier by id.
func (s *SupplierService) Get(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}
	return supplier, nil
}

// Create registers a new supplier record.
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid supplier payload")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Phone:         normalizeOptional(req.Phone),
		Category:      strings.TrimSpace(req.Category),
		Address:       normalizeOptional(req.Address),
		ContactPerson: normalizeOptional(req.ContactPerson),
		Active:        true,
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create supplier")
	}
	return supplier, nil
}

// Update modifies an existing supplier.
func (s *SupplierService) Update(ctx context.Context, id string, req UpdateSupplierRequest) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid supplier payload")
	}

	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}

	supplier.Name = strings.TrimSpace(req.Name)
	supplier.Email = strings.TrimSpace(req.Email)
	supplier.Phone = normalizeOptional(req.Phone)
	supplier.Category = strings.TrimSpace(req.Category)
	supplier.Address = normalizeOptional(req.Address)
	supplier.ContactPerson = normalizeOptional(req.ContactPerson)

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update supplier")
	}
	return supplier, nil
}

// Activate marks a supplier active.
func (s *SupplierService) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a supplier inactive.
func (s *SupplierService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Delete removes a supplier record.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete supplier")
	}
	return nil
}

func (s *SupplierService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change supplier status")
	}
	return nil
}

func (s *SupplierService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByEmail(ctx, strings.TrimSpace(email), excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.WithFields("validation failed", map[string][]string{
			"email": {"is already in use"},
		})
	}
	return nil
}
