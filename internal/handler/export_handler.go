package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/service"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
)

// ExportHandler wires asynchronous exports to HTTP routes.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs a new ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type requestExportPayload struct {
	Resource string `json:"resource" binding:"required"`
	Format   string `json:"format" binding:"required"`
}

// Request godoc
// @Summary Queue a CSV or PDF export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body requestExportPayload true "Export request"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}

	var req requestExportPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	job, err := h.exports.Request(c.Request.Context(), req.Resource, req.Format, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.exports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Get a signed download link for a finished export
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}

	token, err := h.exports.DownloadURL(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"url": "/api/v1/files/" + token}, nil)
}
