package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harborview/backoffice-api/internal/models"
)

// AttendanceRepository manages persistence for employee attendance.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = "a.id, a.employee_id, e.full_name AS employee_name, a.date, a.status, a.check_in_time, a.check_out_time, a.notes, a.created_at, a.updated_at"

// List returns attendance records matching filters along with total count.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := "FROM attendance_records a LEFT JOIN employees e ON e.id = a.employee_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(e.full_name, '')) LIKE $%d", len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"date":       "a.date",
		"created_at": "a.created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	if column == "created_at" {
		column = "a.created_at"
	}
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", attendanceColumns, base, column, order, size, offset)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}

	return records, total, nil
}

// FindByID fetches an attendance record by ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records a LEFT JOIN employees e ON e.id = a.employee_id WHERE a.id = $1", attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByEmployeeAndDate fetches the record for one employee on one date.
func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records a LEFT JOIN employees e ON e.id = a.employee_id WHERE a.employee_id = $1 AND a.date = $2", attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, employeeID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance by employee and date: %w", err)
	}
	return &record, nil
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO attendance_records (id, employee_id, date, status, check_in_time, check_out_time, notes, created_at, updated_at)
		VALUES (:id, :employee_id, :date, :status, :check_in_time, :check_out_time, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// Update modifies an existing attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance_records SET employee_id = :employee_id, date = :date, status = :status, check_in_time = :check_in_time, check_out_time = :check_out_time, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	return nil
}

// UpdateStatus changes only the record's attendance status.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) error {
	const query = `UPDATE attendance_records SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update attendance status: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM attendance_records WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete attendance record: %w", err)
	}
	return nil
}
