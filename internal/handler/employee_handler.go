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

// EmployeeHandler wires the staff roster to HTTP routes.
type EmployeeHandler struct {
	employees *service.EmployeeService
	maxUpload int64
}

// NewEmployeeHandler constructs a new EmployeeHandler.
func NewEmployeeHandler(employees *service.EmployeeService, maxUpload int64) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, maxUpload: maxUpload}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param search query string false "Search by name/email/phone/job title"
// @Param active query bool false "Filter by active status"
// @Param department query string false "Filter by department"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	filter := models.EmployeeFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Active:     boolQuery(c, "active"),
		Department: strings.TrimSpace(c.Query("department")),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	filter.Page, filter.PageSize = pageQuery(c)

	employees, pagination, err := h.employees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get godoc
// @Summary Get employee detail
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create godoc
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body service.CreateEmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update godoc
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body service.UpdateEmployeeRequest true "Employee payload"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// UploadPhoto godoc
// @Summary Upload employee photo
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID"
// @Param photo formData file true "JPEG or PNG photo"
// @Success 200 {object} response.Envelope
// @Router /employees/{id}/photo [post]
func (h *EmployeeHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, appErrors.WithFields("validation failed", map[string][]string{
			"photo": {"file is required"},
		}))
		return
	}
	if h.maxUpload > 0 && file.Size > h.maxUpload {
		response.Error(c, appErrors.WithFields("validation failed", map[string][]string{
			"photo": {"exceeds the maximum allowed size"},
		}))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	employee, err := h.employees.UploadPhoto(c.Request.Context(), c.Param("id"), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Activate godoc
// @Summary Activate employee
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 204
// @Router /employees/{id}/activate [post]
func (h *EmployeeHandler) Activate(c *gin.Context) {
	if err := h.employees.Activate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate employee
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 204
// @Router /employees/{id}/deactivate [post]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	if err := h.employees.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 204
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
