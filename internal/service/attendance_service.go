package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
	UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) error
	Delete(ctx context.Context, id string) error
}

type attendanceEmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// CreateAttendanceRequest represents payload for logging a day of attendance.
type CreateAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required,uuid4"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status       string  `json:"status" validate:"required,oneof=present absent late"`
	CheckInTime  *string `json:"check_in_time" validate:"omitempty,datetime=15:04"`
	CheckOutTime *string `json:"check_out_time" validate:"omitempty,datetime=15:04"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateAttendanceRequest represents payload for amending a record.
type UpdateAttendanceRequest struct {
	Status       string  `json:"status" validate:"required,oneof=present absent late"`
	CheckInTime  *string `json:"check_in_time" validate:"omitempty,datetime=15:04"`
	CheckOutTime *string `json:"check_out_time" validate:"omitempty,datetime=15:04"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// AttendanceService orchestrates daily attendance tracking.
type AttendanceService struct {
	repo      attendanceRepository
	employees attendanceEmployeeFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, employees attendanceEmployeeFinder, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// List returns attendance records plus pagination data.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an attendance record by id.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	return record, nil
}

// Create logs one employee's attendance for a date. One record per
// employee and date is allowed.
func (s *AttendanceService) Create(ctx context.Context, req CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}

	employee, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithFields("validation failed", map[string][]string{
				"employee_id": {"does not reference a known employee"},
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"date": {"must be a date in YYYY-MM-DD format"},
		})
	}

	if _, err := s.repo.FindByEmployeeAndDate(ctx, employee.ID, date); err == nil {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"date": {"a record for this employee and date already exists"},
		})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing record")
	}

	record := &models.AttendanceRecord{
		EmployeeID:   employee.ID,
		Date:         date,
		Status:       models.AttendanceStatus(req.Status),
		CheckInTime:  parseTimeOfDay(date, req.CheckInTime),
		CheckOutTime: parseTimeOfDay(date, req.CheckOutTime),
		Notes:        normalizeOptional(req.Notes),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance record")
	}
	record.EmployeeName = &employee.FullName
	return record, nil
}

// Update amends an existing attendance record.
func (s *AttendanceService) Update(ctx context.Context, id string, req UpdateAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = models.AttendanceStatus(req.Status)
	record.CheckInTime = parseTimeOfDay(record.Date, req.CheckInTime)
	record.CheckOutTime = parseTimeOfDay(record.Date, req.CheckOutTime)
	record.Notes = normalizeOptional(req.Notes)

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance record")
	}
	return record, nil
}

// ChangeStatus re-marks a day as present, absent or late.
func (s *AttendanceService) ChangeStatus(ctx context.Context, id string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown attendance status %q", status))
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change attendance status")
	}
	record.Status = status
	return record, nil
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance record")
	}
	return nil
}

// parseTimeOfDay anchors an HH:MM clock value on the record's date.
// Validation has already rejected malformed values.
func parseTimeOfDay(date time.Time, value *string) *time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	clock, err := time.Parse("15:04", strings.TrimSpace(*value))
	if err != nil {
		return nil
	}
	ts := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return &ts
}
