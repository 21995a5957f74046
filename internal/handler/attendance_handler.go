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

// AttendanceHandler wires attendance tracking to HTTP routes.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs a new AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type changeAttendanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param search query string false "Search by employee name"
// @Param employee_id query string false "Filter by employee"
// @Param status query string false "Filter by status (present/absent/late)"
// @Param date_from query string false "Records on or after (YYYY-MM-DD)"
// @Param date_to query string false "Records on or before (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		EmployeeID: strings.TrimSpace(c.Query("employee_id")),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.AttendanceStatus(status)
		filter.Status = &val
	}
	if from := strings.TrimSpace(c.Query("date_from")); from != "" {
		if ts, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &ts
		}
	}
	if to := strings.TrimSpace(c.Query("date_to")); to != "" {
		if ts, err := time.Parse("2006-01-02", to); err == nil {
			filter.DateTo = &ts
		}
	}
	filter.Page, filter.PageSize = pageQuery(c)

	records, pagination, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get attendance record detail
// @Tags Attendance
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	record, err := h.attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Log attendance for a date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.CreateAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	record, err := h.attendance.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body service.UpdateAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req service.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	record, err := h.attendance.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ChangeStatus godoc
// @Summary Change attendance status
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body changeAttendanceStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id}/status [post]
func (h *AttendanceHandler) ChangeStatus(c *gin.Context) {
	var req changeAttendanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	record, err := h.attendance.ChangeStatus(c.Request.Context(), c.Param("id"), models.AttendanceStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Param id path string true "Record ID"
// @Success 204
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
