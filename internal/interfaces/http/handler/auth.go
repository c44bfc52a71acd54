package handler

import (
	"net/http"

	"github.com/Esyonel/vural-enerji-sub001/internal/application/identity"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/auth"
	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles administrator authentication
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           login
// @Summary      Administrator login
// @Description  Exchange the administrator credentials for a bearer access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindJSON[LoginRequest](&h.BaseHandler, c)
	if !ok {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
		Username:    result.Username,
	})
}

// Logout godoc
// @ID           logout
// @Summary      Administrator logout
// @Description  Revoke the presented access token for the rest of its lifetime
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		Username:     claims.Username,
		TokenJTI:     claims.ID,
		RemainingTTL: claims.RemainingTTL(),
	})
	h.reply(c, http.StatusOK, MessageData{Message: "Logged out successfully"}, err)
}

// Me godoc
// @ID           currentUser
// @Summary      Current administrator
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[CurrentUserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := h.claims(c)
	if !ok {
		return
	}
	resp := CurrentUserResponse{Username: claims.Username, Role: claims.Role}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	h.Success(c, resp)
}

// claims returns the verified token claims, answering 401 when the JWT
// middleware did not run
func (h *AuthHandler) claims(c *gin.Context) (*auth.Claims, bool) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return nil, false
	}
	return claims, true
}
