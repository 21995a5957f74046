package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/internal/service"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
)

// ReservationHandler wires the booking calendar to HTTP routes.
type ReservationHandler struct {
	reservations *service.ReservationService
}

// NewReservationHandler constructs a new ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type changeReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param search query string false "Search by code/room/guest"
// @Param status query string false "Filter by status"
// @Param guest_id query string false "Filter by guest"
// @Param from query string false "Stays ending on or after (YYYY-MM-DD)"
// @Param to query string false "Stays starting on or before (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	filter := models.ReservationFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		GuestID:   strings.TrimSpace(c.Query("guest_id")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.ReservationStatus(status)
		filter.Status = &val
	}
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		if ts, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &ts
		}
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		if ts, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &ts
		}
	}
	filter.Page, filter.PageSize = pageQuery(c)

	reservations, pagination, err := h.reservations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, pagination)
}

// Get godoc
// @Summary Get reservation detail
// @Tags Reservations
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, err := h.reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Create godoc
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}
	reservation, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// Update godoc
// @Summary Update reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body service.UpdateReservationRequest true "Reservation payload"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c *gin.Context) {
	var req service.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}
	reservation, err := h.reservations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// ChangeStatus godoc
// @Summary Change reservation status
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body changeReservationStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /reservations/{id}/status [post]
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	var req changeReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	reservation, err := h.reservations.ChangeStatus(c.Request.Context(), c.Param("id"), models.ReservationStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Delete godoc
// @Summary Delete reservation
// @Tags Reservations
// @Param id path string true "Reservation ID"
// @Success 204
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.reservations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
