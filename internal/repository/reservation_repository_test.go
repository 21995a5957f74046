package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/backoffice-api/internal/models"
)

func TestReservationRepositoryHasOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	checkIn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservations WHERE room_number = $1 AND status <> 'cancelled' AND check_in < $3 AND check_out > $2 LIMIT 1")).
		WithArgs("204", checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	overlap, err := repo.HasOverlap(context.Background(), "204", checkIn, checkOut, "")
	require.NoError(t, err)
	assert.True(t, overlap)

	mock.ExpectQuery(regexp.QuoteMeta("AND id <> $4 LIMIT 1")).
		WithArgs("204", checkIn, checkOut, "r1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	overlap, err = repo.HasOverlap(context.Background(), "204", checkIn, checkOut, "r1")
	require.NoError(t, err)
	assert.False(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReservationRepository(db)

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs("r1", string(models.ReservationStatusCheckedIn), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "r1", models.ReservationStatusCheckedIn)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
