package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// CreateUserRequest represents payload for creating admin accounts.
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Role     string  `json:"role" validate:"required,oneof=SUPERADMIN ADMIN STAFF"`
}

// UpdateUserRequest represents payload for updating admin accounts.
type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Role     string  `json:"role" validate:"required,oneof=SUPERADMIN ADMIN STAFF"`
}

// UserService orchestrates admin account operations.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns admin accounts plus pagination data.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an admin account by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create registers a new admin account.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid user payload")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        normalizeOptional(req.Phone),
		Role:         models.UserRole(req.Role),
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// Update modifies an existing admin account.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}

	user.Email = strings.TrimSpace(req.Email)
	user.FullName = strings.TrimSpace(req.FullName)
	user.Phone = normalizeOptional(req.Phone)
	user.Role = models.UserRole(req.Role)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Activate marks an admin account active.
func (s *UserService) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

// Deactivate marks an admin account inactive.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Delete removes an admin account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

func (s *UserService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change user status")
	}
	return nil
}

func (s *UserService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
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

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
