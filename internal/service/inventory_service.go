package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/imaging"
	"github.com/harborview/backoffice-api/pkg/storage"
)

type inventoryRepository interface {
	List(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, int, error)
	FindByID(ctx context.Context, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	UpdateStatus(ctx context.Context, id string, status models.InventoryStatus) error
	UpdateImagePath(ctx context.Context, id string, imagePath *string) error
	Delete(ctx context.Context, id string) error
}

// CreateInventoryItemRequest represents payload for stocking an item.
type CreateInventoryItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateInventoryItemRequest represents payload for updating an item.
type UpdateInventoryItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// InventoryService orchestrates stock operations.
type InventoryService struct {
	repo      inventoryRepository
	store     storage.ObjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(repo inventoryRepository, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger) *InventoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{repo: repo, store: store, validator: validate, logger: logger}
}

// List returns inventory items plus pagination data.
func (s *InventoryService) List(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an inventory item by id.
func (s *InventoryService) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inventory item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory item")
	}
	return item, nil
}

// Create stocks a new inventory item. Zero quantity items start sold out.
func (s *InventoryService) Create(ctx context.Context, req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid inventory payload")
	}

	status := models.InventoryStatusAvailable
	if req.Quantity == 0 {
		status = models.InventoryStatusSoldOut
	}

	item := &models.InventoryItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Status:      status,
		Description: normalizeOptional(req.Description),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inventory item")
	}
	return item, nil
}

// Update modifies an existing inventory item.
func (s *InventoryService) Update(ctx context.Context, id string, req UpdateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid inventory payload")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Category = strings.TrimSpace(req.Category)
	item.Quantity = req.Quantity
	item.UnitPrice = req.UnitPrice
	item.Description = normalizeOptional(req.Description)
	if req.Quantity == 0 {
		item.Status = models.InventoryStatusSoldOut
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inventory item")
	}
	return item, nil
}

// ChangeStatus flips an item between available and sold out.
func (s *InventoryService) ChangeStatus(ctx context.Context, id string, status models.InventoryStatus) (*models.InventoryItem, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown inventory status %q", status))
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change inventory status")
	}
	item.Status = status
	return item, nil
}

// UploadImage processes and stores an item image, replacing any previous one.
func (s *InventoryService) UploadImage(ctx context.Context, id string, r io.Reader) (*models.InventoryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	processed, err := imaging.Process(r)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"image": {"must be a JPEG or PNG image"},
		})
	}

	key := fmt.Sprintf("inventory/%s/%s.jpg", id, uuid.NewString())
	path, err := s.store.Save(ctx, key, bytes.NewReader(processed.Data), int64(len(processed.Data)), processed.MIME)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}

	old := item.ImagePath
	if err := s.repo.UpdateImagePath(ctx, id, &path); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save image path")
	}
	if old != nil {
		if err := s.store.Delete(ctx, *old); err != nil {
			s.logger.Warn("failed to remove previous image", zap.String("key", *old), zap.Error(err))
		}
	}

	item.ImagePath = &path
	return item, nil
}

// Delete removes an inventory item.
func (s *InventoryService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inventory item")
	}
	if item.ImagePath != nil {
		if err := s.store.Delete(ctx, *item.ImagePath); err != nil {
			s.logger.Warn("failed to remove image of deleted item", zap.Error(err))
		}
	}
	return nil
}
