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

// EmployeeRepository manages persistence for the staff roster.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = "id, full_name, email, phone, job_title, department, salary, photo_path, active, hired_at, created_at, updated_at"

// List returns employees matching filters along with total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := "FROM employees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(department, '')) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(COALESCE(phone, '')) LIKE $%d OR LOWER(job_title) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"job_title":  "job_title",
		"hired_at":   "hired_at",
		"created_at": "created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", employeeColumns, base, column, order, size, offset)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByEmail checks if another employee uses the same email.
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return true, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	const query = `INSERT INTO employees (id, full_name, email, phone, job_title, department, salary, photo_path, active, hired_at, created_at, updated_at)
		VALUES (:id, :full_name, :email, :phone, :job_title, :department, :salary, :photo_path, :active, :hired_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee record.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET full_name = :full_name, email = :email, phone = :phone, job_title = :job_title, department = :department, salary = :salary, photo_path = :photo_path, active = :active, hired_at = :hired_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// SetActive flips an employee's active flag.
func (r *EmployeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE employees SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set employee active: %w", err)
	}
	return nil
}

// UpdatePhotoPath stores the object key of a processed profile photo.
func (r *EmployeeRepository) UpdatePhotoPath(ctx context.Context, id string, photoPath *string) error {
	const query = `UPDATE employees SET photo_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, photoPath, time.Now().UTC()); err != nil {
		return fmt.Errorf("update employee photo: %w", err)
	}
	return nil
}

// Delete removes an employee record.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM employees WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
