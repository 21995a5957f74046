package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/imaging"
	"github.com/harborview/backoffice-api/pkg/storage"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePhotoPath(ctx context.Context, id string, photoPath *string) error
	Delete(ctx context.Context, id string) error
}

// CreateEmployeeRequest represents payload for hiring an employee.
type CreateEmployeeRequest struct {
	FullName   string   `json:"full_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	JobTitle   string   `json:"job_title" validate:"required,max=100"`
	Department *string  `json:"department" validate:"omitempty,max=100"`
	Salary     *float64 `json:"salary" validate:"omitempty,gte=0"`
	HiredAt    *string  `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest represents payload for updating an employee.
type UpdateEmployeeRequest struct {
	FullName   string   `json:"full_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	JobTitle   string   `json:"job_title" validate:"required,max=100"`
	Department *string  `json:"department" validate:"omitempty,max=100"`
	Salary     *float64 `json:"salary" validate:"omitempty,gte=0"`
	HiredAt    *string  `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
}

// EmployeeService orchestrates staff roster operations.
type EmployeeService struct {
	repo      employeeRepository
	store     storage.ObjectStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeRepository, store storage.ObjectStore, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, store: store, validator: validate, logger: logger}
}

// List returns employees plus pagination data.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an employee by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee record.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid employee payload")
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hiredAt, err := parseOptionalDate(req.HiredAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"hired_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	employee := &models.Employee{
		FullName:   strings.TrimSpace(req.FullName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      normalizeOptional(req.Phone),
		JobTitle:   strings.TrimSpace(req.JobTitle),
		Department: normalizeOptional(req.Department),
		Salary:     req.Salary,
		HiredAt:    hiredAt,
		Active:     true,
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update modifies an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid employee payload")
	}

	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}

	hiredAt, err := parseOptionalDate(req.HiredAt)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"hired_at": {"must be a date in YYYY-MM-DD format"},
		})
	}

	employee.FullName = strings.TrimSpace(req.FullName)
	employee.Email = strings.TrimSpace(req.Email)
	employee.Phone = normalizeOptional(req.Phone)
	employee.JobTitle = strings.TrimSpace(req.JobTitle)
	employee.Department = normalizeOptional(req.Department)
	employee.Salary = req.Salary
	employee.HiredAt = hiredAt

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Activate marks an employee active.
func (s *EmployeeService) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

// Deactivate marks an employee inactive.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// UploadPhoto processes and stores a staff photo, replacing any previous one.
func (s *EmployeeService) UploadPhoto(ctx context.Context, id string, r io.Reader) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	processed, err := imaging.Process(r)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"photo": {"must be a JPEG or PNG image"},
		})
	}

	key := fmt.Sprintf("employees/%s/%s.jpg", id, uuid.NewString())
	path, err := s.store.Save(ctx, key, bytes.NewReader(processed.Data), int64(len(processed.Data)), processed.MIME)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}

	old := employee.PhotoPath
	if err := s.repo.UpdatePhotoPath(ctx, id, &path); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save photo path")
	}
	if old != nil {
		if err := s.store.Delete(ctx, *old); err != nil {
			s.logger.Warn("failed to remove previous photo", zap.String("key", *old), zap.Error(err))
		}
	}

	employee.PhotoPath = &path
	return employee, nil
}

// Delete removes an employee record.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	if employee.PhotoPath != nil {
		if err := s.store.Delete(ctx, *employee.PhotoPath); err != nil {
			s.logger.Warn("failed to remove photo of deleted employee", zap.Error(err))
		}
	}
	return nil
}

func (s *EmployeeService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change employee status")
	}
	return nil
}

func (s *EmployeeService) ensureUniqueEmail(ctx context.Context, email, excludeID string) error {
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

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	ts, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
