package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type mockAttendanceRepo struct {
	items  map[string]*models.AttendanceRecord
	byDate map[string]*models.AttendanceRecord
}

func attendanceDateKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	out := make([]models.AttendanceRecord, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	if r, ok := m.items[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.AttendanceRecord, error) {
	if r, ok := m.byDate[attendanceDateKey(employeeID, date)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if m.items == nil {
		m.items = make(map[string]*models.AttendanceRecord)
	}
	if m.byDate == nil {
		m.byDate = make(map[string]*models.AttendanceRecord)
	}
	if record.ID == "" {
		record.ID = "generated"
	}
	cp := *record
	m.items[record.ID] = &cp
	m.byDate[attendanceDateKey(record.EmployeeID, record.Date)] = &cp
	return nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, record *models.AttendanceRecord) error {
	cp := *record
	m.items[record.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) UpdateStatus(ctx context.Context, id string, status models.AttendanceStatus) error {
	if r, ok := m.items[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockEmployeeFinder struct {
	employees map[string]*models.Employee
}

func (m *mockEmployeeFinder) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

const testEmployeeID = "7c2e4f6a-8b1d-4e3c-9a5b-6d7e8f9a0b1c"

func newAttendanceService(repo *mockAttendanceRepo) *AttendanceService {
	employees := &mockEmployeeFinder{employees: map[string]*models.Employee{
		testEmployeeID: {ID: testEmployeeID, FullName: "Front Desk", Active: true},
	}}
	return NewAttendanceService(repo, employees, validator.New(), zap.NewNop())
}

func TestAttendanceServiceCreate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo)

	checkIn := "08:30"
	record, err := svc.Create(context.Background(), CreateAttendanceRequest{
		EmployeeID:  testEmployeeID,
		Date:        "2026-08-20",
		Status:      "present",
		CheckInTime: &checkIn,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	require.NotNil(t, record.CheckInTime)
	assert.Equal(t, 8, record.CheckInTime.Hour())
	assert.Equal(t, 30, record.CheckInTime.Minute())
	assert.Equal(t, record.Date.Day(), record.CheckInTime.Day())
}

func TestAttendanceServiceCreateDuplicateDate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo)

	req := CreateAttendanceRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-08-20",
		Status:     "present",
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "date")
}

func TestAttendanceServiceCreateValidation(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{})

	_, err := svc.Create(context.Background(), CreateAttendanceRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-08-20",
		Status:     "vacationing",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "status")
}

func TestAttendanceServiceChangeStatus(t *testing.T) {
	repo := &mockAttendanceRepo{items: map[string]*models.AttendanceRecord{
		"a1": {ID: "a1", EmployeeID: testEmployeeID, Status: models.AttendanceStatusPresent},
	}}
	svc := newAttendanceService(repo)

	record, err := svc.ChangeStatus(context.Background(), "a1", models.AttendanceStatusLate)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLate, record.Status)

	_, err = svc.ChangeStatus(context.Background(), "a1", models.AttendanceStatus("nope"))
	require.Error(t, err)
}
