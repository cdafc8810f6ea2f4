package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates a student account and returns its first token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "user registered", "user_id", resp.User.ID)
	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Registration successful",
		Data:    resp,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Login successful", resp)
}

// OAuthLogin exchanges a Casdoor-issued token for a local session.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req services.OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	resp, err := h.authService.OAuthLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Login successful", resp)
}

// Refresh rotates a refresh token for a fresh pair. The presented token is
// consumed whether or not the caller ever uses the replacement.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Token refreshed", pair)
}

// Logout revokes the refresh token and the presented access token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req services.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload")
		return
	}

	accessToken := req.AccessToken
	if accessToken == "" {
		accessToken = bearerToken(c)
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken, accessToken); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.ok(c, "Logged out", nil)
}
