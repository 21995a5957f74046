package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/internal/service"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
)

// AuthHandler wires authentication flows to HTTP routes.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Login godoc
// @Summary Authenticate an admin account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid refresh payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.auth.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary Revoke the current refresh token
// @Tags Auth
// @Accept json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}

	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid logout payload"))
		return
	}

	meta := models.LoginRequest{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken, claims.UserID, meta); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Return the authenticated account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// ChangePassword godoc
// @Summary Change the authenticated account password
// @Tags Auth
// @Accept json
// @Success 204
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing credentials"))
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid change password payload"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
