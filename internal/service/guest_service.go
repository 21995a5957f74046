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

type guestRepository interface {
	List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, int, error)
	FindByID(ctx context.Context, id string) (*models.Guest, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, guest *models.Guest) error
	Update(ctx context.Context, guest *models.Guest) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateGuestRequest represents payload for registering a guest.
type CreateGuestRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	IDNumber    *string `json:"id_number" validate:"omitempty,max=100"`
}

// UpdateGuestRequest represents payload for updating a guest.
type UpdateGuestRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	IDNumber    *string `json:"id_number" validate:"omitempty,max=100"`
}

// GuestService orchestrates guest registry operations.
type GuestService struct {
	repo      guestRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuestService constructs a GuestService.
func NewGuestService(repo guestRepository, validate *validator.Validate, logger *zap.Logger) *GuestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuestService{repo: repo, validator: validate, logger: logger}
}

// List returns guests plus pagination data.
func (s *GuestService) List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, *models.Pagination, error) {
	guests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guests")
	}
	return guests, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a guest by id.
func (s *GuestService) Get(ctx context.Context, id string) (*models.Guest, error) {
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guest not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guest")
	}
	return guest, nil
}

// Create registers a new guest record.
func (s *GuestService) Create(ctx context.Context, req CreateGuestRequest) (*models.Guest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid guest payload")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	guest := &models.Guest{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       normalizeOptional(req.Phone),
		Address:     normalizeOptional(req.Address),
		Nationality: normalizeOptional(req.Nationality),
		IDNumber:    normalizeOptional(req.IDNumber),
		Active:      true,
	}

	if err := s.repo.Create(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create guest")
	}
	return guest, nil
}

// Update modifies an existing guest.
func (s *GuestService) Update(ctx context.Context, id string, req UpdateGuestRequest) (*models.Guest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid guest payload")
	}

	guest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}

	guest.FullName = strings.TrimSpace(req.FullName)
	guest.Email = strings.TrimSpace(req.Email)
	guest.Phone = normalizeOptional(req.Phone)
	guest.Address = normalizeOptional(req.Address)
	guest.Nationality = normalizeOptional(req.Nationality)
	guest.IDNumber = normalizeOptional(req.IDNumber)

	if err := s.repo.Update(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guest")
	}
	return guest, nil
}

// Activate marks a guest active.
func (s *GuestService) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a guest inactive.
func (s *GuestService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Delete removes a guest record.
func (s *GuestService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete guest")
	}
	return nil
}

func (s *GuestService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change guest status")
	}
	return nil
}

func (s *GuestService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
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
