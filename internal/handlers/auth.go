package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/config"
	"github.com/mlazarev/tracknest/internal/middleware"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/pkg/cache"
	"github.com/mlazarev/tracknest/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig, c *cache.Cache) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, jwtCfg, c),
	}
}

// Register creates an account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, user)
}

// Login verifies credentials and returns a token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, resp)
}

// Me returns the authenticated account
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateMe applies a partial update to the account
// PATCH /api/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateMe(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, user)
}

// DeleteMe removes the account and everything it owns
// DELETE /api/auth/me
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	if err := h.authService.DeleteMe(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.NoContent(c)
}
