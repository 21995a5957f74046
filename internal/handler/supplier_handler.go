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

// SupplierHandler wires the supplier registry to HTTP routes.
type SupplierHandler struct {
	suppliers *service.SupplierService
}

// NewSupplierHandler constructs a new SupplierHandler.
func NewSupplierHandler(suppliers *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// List godoc
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Param search query string false "Search by name/email/category"
// @Param active query bool false "Filter by active status"
// @Param category query string false "Filter by category"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	filter := models.SupplierFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Active:    boolQuery(c, "active"),
		Category:  strings.TrimSpace(c.Query("category")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	filter.Page, filter.PageSize = pageQuery(c)

	suppliers, pagination, err := h.suppliers.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suppliers, pagination)
}

// Get godoc
// @Summary Get supplier detail
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} response.Envelope
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.suppliers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supplier, nil)
}

// Create godoc
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param payload body service.CreateSupplierRequest true "Supplier payload"
// @Success 201 {object} response.Envelope
// @Router /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}
	supplier, err := h.suppliers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, supplier)
}

// Update godoc
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param payload body service.UpdateSupplierRequest true "Supplier payload"
// @Success 200 {object} response.Envelope
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}
	supplier, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supplier, nil)
}

// Activate godoc
// @Summary Activate supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Router /suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	if err := h.suppliers.Activate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Router /suppliers/{id}/deactivate [post]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	if err := h.suppliers.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete supplier
// @Tags Suppliers
// @Param id path string true "Supplier ID"
// @Success 204
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
