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

// PurchaseOrderHandler wires procurement to HTTP routes.
type PurchaseOrderHandler struct {
	orders *service.PurchaseOrderService
}

// NewPurchaseOrderHandler constructs a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(orders *service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders}
}

type changeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List purchase orders
// @Tags Purchase Orders
// @Produce json
// @Param search query string false "Search by number/item/supplier"
// @Param status query string false "Filter by status"
// @Param supplier_id query string false "Filter by supplier"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter := models.PurchaseOrderFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		SupplierID: strings.TrimSpace(c.Query("supplier_id")),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.PurchaseOrderStatus(status)
		filter.Status = &val
	}
	filter.Page, filter.PageSize = pageQuery(c)

	orders, pagination, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, pagination)
}

// Get godoc
// @Summary Get purchase order detail
// @Tags Purchase Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// Create godoc
// @Summary Create purchase order
// @Tags Purchase Orders
// @Accept json
// @Produce json
// @Param payload body service.CreatePurchaseOrderRequest true "Order payload"
// @Success 201 {object} response.Envelope
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid purchase order payload"))
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// Update godoc
// @Summary Update purchase order
// @Tags Purchase Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body service.UpdatePurchaseOrderRequest true "Order payload"
// @Success 200 {object} response.Envelope
// @Router /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	var req service.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid purchase order payload"))
		return
	}
	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// ChangeStatus godoc
// @Summary Change purchase order status
// @Tags Purchase Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body changeOrderStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /purchase-orders/{id}/status [post]
func (h *PurchaseOrderHandler) ChangeStatus(c *gin.Context) {
	var req changeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	order, err := h.orders.ChangeStatus(c.Request.Context(), c.Param("id"), models.PurchaseOrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// Delete godoc
// @Summary Delete purchase order
// @Tags Purchase Orders
// @Param id path string true "Order ID"
// @Success 204
// @Router /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
