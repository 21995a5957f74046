package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/backoffice-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "job_title", "department", "salary", "photo_path", "active", "hired_at", "created_at", "updated_at"}).
		AddRow("e1", "Front Desk", "fd@example.com", nil, "Receptionist", nil, nil, nil, true, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, phone, job_title, department, salary, photo_path, active, hired_at, created_at, updated_at FROM employees WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	active := true
	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "job_title", "department", "salary", "photo_path", "active", "hired_at", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta("active = $1")).
		WithArgs(true, "housekeeping", "%maria%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(true, "housekeeping", "%maria%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.EmployeeFilter{
		Active:     &active,
		Department: "housekeeping",
		Search:     "Maria",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreateAndSetActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), "Front Desk", "fd@example.com", nil, "Receptionist", nil, nil, nil, true, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{FullName: "Front Desk", Email: "fd@example.com", JobTitle: "Receptionist", Active: true}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.NotEmpty(t, employee.ID)

	mock.ExpectExec("UPDATE employees SET active").
		WithArgs("e1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.SetActive(context.Background(), "e1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("fd@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "fd@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("fd@example.com", "e1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByEmail(context.Background(), "fd@example.com", "e1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdatePhotoPath(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	path := "employees/e1/photo.jpg"
	mock.ExpectExec("UPDATE employees SET photo_path").
		WithArgs("e1", path, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.UpdatePhotoPath(context.Background(), "e1", &path))
	assert.NoError(t, mock.ExpectationsWereMet())
}
