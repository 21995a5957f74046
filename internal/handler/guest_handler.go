package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/internal/service"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
)

// GuestHandler wires the guest registry to HTTP routes.
type GuestHandler struct {
	guests *service.GuestService
}

// NewGuestHandler constructs a new GuestHandler.
func NewGuestHandler(guests *service.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// List godoc
// @Summary List guests
// @Tags Guests
// @Produce json
// @Param search query string false "Search by name/email/phone"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /guests [get]
func (h *GuestHandler) List(c *gin.Context) {
	filter := models.GuestFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Active:    boolQuery(c, "active"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageQuery(c)

	guests, pagination, err := h.guests.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guests, pagination)
}

// Get godoc
// @Summary Get guest detail
// @Tags Guests
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Envelope
// @Router /guests/{id} [get]
func (h *GuestHandler) Get(c *gin.Context) {
	guest, err := h.guests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Create godoc
// @Summary Create guest
// @Tags Guests
// @Accept json
// @Produce json
// @Param payload body service.CreateGuestRequest true "Guest payload"
// @Success 201 {object} response.Envelope
// @Router /guests [post]
func (h *GuestHandler) Create(c *gin.Context) {
	var req service.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guest payload"))
		return
	}
	guest, err := h.guests.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guest)
}

// Update godoc
// @Summary Update guest
// @Tags Guests
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param payload body service.UpdateGuestRequest true "Guest payload"
// @Success 200 {object} response.Envelope
// @Router /guests/{id} [put]
func (h *GuestHandler) Update(c *gin.Context) {
	var req service.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guest payload"))
		return
	}
	guest, err := h.guests.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Activate godoc
// @Summary Activate guest
// @Tags Guests
// @Param id path string true "Guest ID"
// @Success 204
// @Router /guests/{id}/activate [post]
func (h *GuestHandler) Activate(c *gin.Context) {
	if err := h.guests.Activate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate guest
// @Tags Guests
// @Param id path string true "Guest ID"
// @Success 204
// @Router /guests/{id}/deactivate [post]
func (h *GuestHandler) Deactivate(c *gin.Context) {
	if err := h.guests.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete guest
// @Tags Guests
// @Param id path string true "Guest ID"
// @Success 204
// @Router /guests/{id} [delete]
func (h *GuestHandler) Delete(c *gin.Context) {
	if err := h.guests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
