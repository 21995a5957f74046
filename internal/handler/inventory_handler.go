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

// InventoryHandler wires stock management to HTTP routes.
type InventoryHandler struct {
	inventory *service.InventoryService
	maxUpload int64
}

// NewInventoryHandler constructs a new InventoryHandler.
func NewInventoryHandler(inventory *service.InventoryService, maxUpload int64) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, maxUpload: maxUpload}
}

type changeInventoryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary List inventory items
// @Tags Inventory
// @Produce json
// @Param search query string false "Search by name/category"
// @Param status query string false "Filter by status (available/sold_out)"
// @Param category query string false "Filter by category"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	filter := models.InventoryFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Category:  strings.TrimSpace(c.Query("category")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		val := models.InventoryStatus(status)
		filter.Status = &val
	}
	filter.Page, filter.PageSize = pageQuery(c)

	items, pagination, err := h.inventory.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get inventory item detail
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body service.CreateInventoryItemRequest true "Item payload"
// @Success 201 {object} response.Envelope
// @Router /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inventory payload"))
		return
	}
	item, err := h.inventory.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param payload body service.UpdateInventoryItemRequest true "Item payload"
// @Success 200 {object} response.Envelope
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inventory payload"))
		return
	}
	item, err := h.inventory.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ChangeStatus godoc
// @Summary Change inventory item status
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param payload body changeInventoryStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /inventory/{id}/status [post]
func (h *InventoryHandler) ChangeStatus(c *gin.Context) {
	var req changeInventoryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	item, err := h.inventory.ChangeStatus(c.Request.Context(), c.Param("id"), models.InventoryStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// UploadImage godoc
// @Summary Upload inventory item image
// @Tags Inventory
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Item ID"
// @Param image formData file true "JPEG or PNG image"
// @Success 200 {object} response.Envelope
// @Router /inventory/{id}/image [post]
func (h *InventoryHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.WithFields("validation failed", map[string][]string{
			"image": {"file is required"},
		}))
		return
	}
	if h.maxUpload > 0 && file.Size > h.maxUpload {
		response.Error(c, appErrors.WithFields("validation failed", map[string][]string{
			"image": {"exceeds the maximum allowed size"},
		}))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	item, err := h.inventory.UploadImage(c.Request.Context(), c.Param("id"), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete inventory item
// @Tags Inventory
// @Param id path string true "Item ID"
// @Success 204
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
