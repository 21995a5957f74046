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

type mockReservationRepo struct {
	items         map[string]*models.Reservation
	overlap       bool
	statusChanges map[string]models.ReservationStatus
}

func (m *mockReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	out := make([]models.Reservation, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := m.items[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReservationRepo) HasOverlap(ctx context.Context, roomNumber string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	return m.overlap, nil
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *models.Reservation) error {
	if m.items == nil {
		m.items = make(map[string]*models.Reservation)
	}
	if reservation.ID == "" {
		reservation.ID = "generated"
	}
	cp := *reservation
	m.items[reservation.ID] = &cp
	return nil
}

func (m *mockReservationRepo) Update(ctx context.Context, reservation *models.Reservation) error {
	cp := *reservation
	m.items[reservation.ID] = &cp
	return nil
}

func (m *mockReservationRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	if m.statusChanges == nil {
		m.statusChanges = make(map[string]models.ReservationStatus)
	}
	m.statusChanges[id] = status
	if r, ok := m.items[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *mockReservationRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockGuestFinder struct {
	guests map[string]*models.Guest
}

func (m *mockGuestFinder) FindByID(ctx context.Context, id string) (*models.Guest, error) {
	if g, ok := m.guests[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

const testGuestID = "4f9d2a7e-6c1b-4e8f-9a3d-2b5c7e8f9a1b"

func newReservationService(repo *mockReservationRepo) *ReservationService {
	guests := &mockGuestFinder{guests: map[string]*models.Guest{
		testGuestID: {ID: testGuestID, FullName: "Ada Guest", Active: true},
	}}
	return NewReservationService(repo, guests, validator.New(), zap.NewNop())
}

func TestReservationServiceCreate(t *testing.T) {
	repo := &mockReservationRepo{}
	svc := newReservationService(repo)

	reservation, err := svc.Create(context.Background(), CreateReservationRequest{
		GuestID:    testGuestID,
		RoomNumber: "204",
		CheckIn:    "2026-09-01",
		CheckOut:   "2026-09-04",
		Adults:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusBooked, reservation.Status)
	assert.Contains(t, reservation.Code, "RSV-")
	require.NotNil(t, reservation.GuestName)
	assert.Equal(t, "Ada Guest", *reservation.GuestName)
}

func TestReservationServiceCreateCheckOutBeforeCheckIn(t *testing.T) {
	svc := newReservationService(&mockReservationRepo{})

	_, err := svc.Create(context.Background(), CreateReservationRequest{
		GuestID:    testGuestID,
		RoomNumber: "204",
		CheckIn:    "2026-09-04",
		CheckOut:   "2026-09-01",
		Adults:     1,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "check_out")
}

func TestReservationServiceCreateOverlappingStay(t *testing.T) {
	svc := newReservationService(&mockReservationRepo{overlap: true})

	_, err := svc.Create(context.Background(), CreateReservationRequest{
		GuestID:    testGuestID,
		RoomNumber: "204",
		CheckIn:    "2026-09-01",
		CheckOut:   "2026-09-04",
		Adults:     1,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "room_number")
}

func TestReservationServiceCreateUnknownGuest(t *testing.T) {
	svc := newReservationService(&mockReservationRepo{})

	_, err := svc.Create(context.Background(), CreateReservationRequest{
		GuestID:    "1a1a1a1a-1a1a-4a1a-8a1a-1a1a1a1a1a1a",
		RoomNumber: "204",
		CheckIn:    "2026-09-01",
		CheckOut:   "2026-09-04",
		Adults:     1,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "guest_id")
}

func TestReservationServiceStatusLifecycle(t *testing.T) {
	cases := []struct {
		name    string
		from    models.ReservationStatus
		to      models.ReservationStatus
		allowed bool
	}{
		{"booked to checked_in", models.ReservationStatusBooked, models.ReservationStatusCheckedIn, true},
		{"booked to cancelled", models.ReservationStatusBooked, models.ReservationStatusCancelled, true},
		{"booked to checked_out", models.ReservationStatusBooked, models.ReservationStatusCheckedOut, false},
		{"checked_in to checked_out", models.ReservationStatusCheckedIn, models.ReservationStatusCheckedOut, true},
		{"checked_out is terminal", models.ReservationStatusCheckedOut, models.ReservationStatusBooked, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockReservationRepo{items: map[string]*models.Reservation{
				"r1": {ID: "r1", Status: tc.from},
			}}
			svc := newReservationService(repo)

			updated, err := svc.ChangeStatus(context.Background(), "r1", tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
			}
		})
	}
}
