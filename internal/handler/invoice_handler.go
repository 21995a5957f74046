package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/internal/service"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
)

// InvoiceHandler wires guest billing to HTTP routes.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

// NewInvoiceHandler constructs a new InvoiceHandler.
func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type changeInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param search query string false "Search by number/guest"
// @Param status query string false "Filter by status (unpaid/paid/cancelled)"
// @Param guest_id query string false "Filter by guest"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := models.InvoiceFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		GuestID:   strings.TrimSpace(c.Query("guest_id")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.InvoiceStatus(status)
		filter.Status = &val
	}
	filter.Page, filter.PageSize = pageQuery(c)

	invoices, pagination, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, pagination)
}

// Get godoc
// @Summary Get invoice detail with line items
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// Create godoc
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param payload body service.CreateInvoiceRequest true "Invoice payload"
// @Success 201 {object} response.Envelope
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invoice payload"))
		return
	}
	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// Update godoc
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body service.UpdateInvoiceRequest true "Invoice payload"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invoice payload"))
		return
	}
	invoice, err := h.invoices.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// ChangeStatus godoc
// @Summary Change invoice status
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body changeInvoiceStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/status [post]
func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
	var req changeInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	invoice, err := h.invoices.ChangeStatus(c.Request.Context(), c.Param("id"), models.InvoiceStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// DownloadPDF godoc
// @Summary Download a printable invoice PDF
// @Tags Invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	data, invoice, err := h.invoices.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
