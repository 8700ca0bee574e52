package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cactus-admin-api/internal/application/service"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles admin login
// @Summary Login
// @Description Exchange the admin password for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Admin password"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", response.LoginResponse{
		AccessToken: output.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   output.ExpiresAt,
	})
}

// Me returns the authenticated principal
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	response.OK(c, "Session is valid", gin.H{
		"subject": GetAuthSubject(c),
		"role":    GetAuthRole(c),
	})
}
