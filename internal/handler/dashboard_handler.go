package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/service"
	"github.com/harborview/backoffice-api/pkg/response"
)

// DashboardHandler wires the landing page summary to HTTP routes.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs a new DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Back-office landing page counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
