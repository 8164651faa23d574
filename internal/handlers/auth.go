package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

type AuthHandler struct {
	authService   *services.AuthService
	inviteService *services.InviteService
}

func NewAuthHandler(authService *services.AuthService, inviteService *services.InviteService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		inviteService: inviteService,
	}
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	// Link any invites that were waiting for this email. Non-fatal: the
	// next sign-in retries.
	_, _ = h.inviteService.AcceptInvites(resp.User.ID, resp.User.Email)

	utils.CreatedResponse(c, resp)
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}
		respondServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.BadRequestResponse(c, "refresh_token is required", nil)
		return
	}

	resp, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid refresh token")
		return
	}

	utils.SuccessResponse(c, resp)
}

// GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.GetUser(userIDStr)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, user)
}
