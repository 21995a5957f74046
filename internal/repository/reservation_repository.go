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

// ReservationRepository manages persistence for calendar bookings.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = "r.id, r.code, r.guest_id, g.full_name AS guest_name, r.room_number, r.room_type, r.check_in, r.check_out, r.adults, r.children, r.status, r.notes, r.created_at, r.updated_at"

// List returns reservations matching filters along with total count.
func (r *ReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	base := "FROM reservations r LEFT JOIN guests g ON g.id = r.guest_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.GuestID != "" {
		conditions = append(conditions, fmt.Sprintf("r.guest_id = $%d", len(args)+1))
		args = append(args, filter.GuestID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_out >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_in <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(r.code) LIKE $%d OR LOWER(r.room_number) LIKE $%d OR LOWER(COALESCE(g.full_name, '')) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"code":        "r.code",
		"room_number": "r.room_number",
		"check_in":    "r.check_in",
		"check_out":   "r.check_out",
		"created_at":  "r.created_at",
	}
	column, order := sortClause(filter.SortBy, filter.SortOrder, allowedSorts)
	if column == "created_at" {
		column = "r.created_at"
	}
	size, offset := pageClause(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", reservationColumns, base, column, order, size, offset)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	return reservations, total, nil
}

// FindByID fetches a reservation by ID.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations r LEFT JOIN guests g ON g.id = r.guest_id WHERE r.id = $1", reservationColumns)
	var reservation models.Reservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// HasOverlap reports whether a room already has a booking intersecting the window.
// Cancelled bookings do not block the room.
func (r *ReservationRepository) HasOverlap(ctx context.Context, roomNumber string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	query := `SELECT 1 FROM reservations WHERE room_number = $1 AND status <> 'cancelled' AND check_in < $3 AND check_out > $2`
	args := []interface{}{roomNumber, checkIn, checkOut}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check reservation overlap: %w", err)
	}
	return true, nil
}

// Create inserts a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	reservation.UpdatedAt = now

	const query = `INSERT INTO reservations (id, code, guest_id, room_number, room_type, check_in, check_out, adults, children, status, notes, created_at, updated_at)
		VALUES (:id, :code, :guest_id, :room_number, :room_type, :check_in, :check_out, :adults, :children, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// Update modifies an existing reservation.
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	reservation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reservations SET code = :code, guest_id = :guest_id, room_number = :room_number, room_type = :room_type, check_in = :check_in, check_out = :check_out, adults = :adults, children = :children, status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// UpdateStatus changes only the reservation's lifecycle status.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	return nil
}

// Delete removes a reservation.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reservations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}
