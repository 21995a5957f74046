package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type reservationRepository interface {
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error)
	FindByID(ctx context.Context, id string) (*models.Reservation, error)
	HasOverlap(ctx context.Context, roomNumber string, checkIn, checkOut time.Time, excludeID string) (bool, error)
	Create(ctx context.Context, reservation *models.Reservation) error
	Update(ctx context.Context, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	Delete(ctx context.Context, id string) error
}

type reservationGuestFinder interface {
	FindByID(ctx context.Context, id string) (*models.Guest, error)
}

// Allowed reservation transitions. Checked out and cancelled are terminal.
var reservationTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationStatusBooked:    {models.ReservationStatusCheckedIn, models.ReservationStatusCancelled},
	models.ReservationStatusCheckedIn: {models.ReservationStatusCheckedOut},
}

// CreateReservationRequest represents payload for booking a room.
type CreateReservationRequest struct {
	GuestID    string  `json:"guest_id" validate:"required,uuid4"`
	RoomNumber string  `json:"room_number" validate:"required,max=20"`
	RoomType   *string `json:"room_type" validate:"omitempty,max=100"`
	CheckIn    string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults     int     `json:"adults" validate:"required,gt=0"`
	Children   int     `json:"children" validate:"gte=0"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateReservationRequest represents payload for amending a booking.
type UpdateReservationRequest struct {
	RoomNumber string  `json:"room_number" validate:"required,max=20"`
	RoomType   *string `json:"room_type" validate:"omitempty,max=100"`
	CheckIn    string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults     int     `json:"adults" validate:"required,gt=0"`
	Children   int     `json:"children" validate:"gte=0"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

// ReservationService orchestrates the booking calendar.
type ReservationService struct {
	repo      reservationRepository
	guests    reservationGuestFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(repo reservationRepository, guests reservationGuestFinder, validate *validator.Validate, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{repo: repo, guests: guests, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns reservations plus pagination data.
func (s *ReservationService) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, *models.Pagination, error) {
	reservations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	return reservation, nil
}

// Create books a room for a guest. The room must be free for the date range.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid reservation payload")
	}

	guest, err := s.guests.FindByID(ctx, req.GuestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithFields("validation failed", map[string][]string{
				"guest_id": {"does not reference a known guest"},
			})
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guest")
	}

	checkIn, checkOut, err := s.parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRoomFree(ctx, strings.TrimSpace(req.RoomNumber), checkIn, checkOut, ""); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		Code:       fmt.Sprintf("RSV-%s-%s", s.now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8])),
		GuestID:    guest.ID,
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		RoomType:   normalizeOptional(req.RoomType),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Adults:     req.Adults,
		Children:   req.Children,
		Status:     models.ReservationStatusBooked,
		Notes:      normalizeOptional(req.Notes),
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}
	reservation.GuestName = &guest.FullName
	return reservation, nil
}

// Update amends a booking that has not yet been closed out.
func (s *ReservationService) Update(ctx context.Context, id string, req UpdateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid reservation payload")
	}

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status == models.ReservationStatusCheckedOut || reservation.Status == models.ReservationStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "closed reservations cannot be edited")
	}

	checkIn, checkOut, err := s.parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	if err := s.ensureRoomFree(ctx, strings.TrimSpace(req.RoomNumber), checkIn, checkOut, id); err != nil {
		return nil, err
	}

	reservation.RoomNumber = strings.TrimSpace(req.RoomNumber)
	reservation.RoomType = normalizeOptional(req.RoomType)
	reservation.CheckIn = checkIn
	reservation.CheckOut = checkOut
	reservation.Adults = req.Adults
	reservation.Children = req.Children
	reservation.Notes = normalizeOptional(req.Notes)

	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation")
	}
	return reservation, nil
}

// ChangeStatus moves a booking along its lifecycle.
func (s *ReservationService) ChangeStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown reservation status %q", status))
	}

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(reservationTransitions[reservation.Status], status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus,
			fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change reservation status")
	}
	reservation.Status = status
	return reservation, nil
}

// Delete removes a reservation from the calendar.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reservation")
	}
	return nil
}

func (s *ReservationService) parseStayDates(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse("2006-01-02", checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.WithFields("validation failed", map[string][]string{
			"check_in": {"must be a date in YYYY-MM-DD format"},
		})
	}
	checkOut, err := time.Parse("2006-01-02", checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.WithFields("validation failed", map[string][]string{
			"check_out": {"must be a date in YYYY-MM-DD format"},
		})
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, appErrors.WithFields("validation failed", map[string][]string{
			"check_out": {"must be after check_in"},
		})
	}
	return checkIn, checkOut, nil
}

func (s *ReservationService) ensureRoomFree(ctx context.Context, roomNumber string, checkIn, checkOut time.Time, excludeID string) error {
	overlap, err := s.repo.HasOverlap(ctx, roomNumber, checkIn, checkOut, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room availability")
	}
	if overlap {
		return appErrors.WithFields("validation failed", map[string][]string{
			"room_number": {"is already booked for the requested dates"},
		})
	}
	return nil
}
