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

// UserHandler wires admin account management to HTTP routes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @Summary List admin accounts
// @Tags Users
// @Produce json
// @Param search query string false "Search by name/email"
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := models.UserFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		Active:    boolQuery(c, "active"),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		val := models.UserRole(strings.ToUpper(role))
		filter.Role = &val
	}
	filter.Page, filter.PageSize = pageQuery(c)

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Get admin account detail
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Create godoc
// @Summary Create admin account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update admin account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateUserRequest true "User payload"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Activate godoc
// @Summary Activate admin account
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	if err := h.users.Activate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate admin account
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.users.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete admin account
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
