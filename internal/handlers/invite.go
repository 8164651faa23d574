package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/boxport/boxport-backend/internal/config"
	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

// InviteHandler exposes the two privileged invite endpoints. They run with
// elevated database access on behalf of the caller, so the handler only
// trusts the bearer token for identity.
type InviteHandler struct {
	inviteService *services.InviteService
	cfg           *config.Config
}

func NewInviteHandler(inviteService *services.InviteService, cfg *config.Config) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		cfg:           cfg,
	}
}

// POST /api/invite
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}

	result, err := h.inviteService.CreateInvite(userID, req.Email)
	if err != nil {
		respondServiceError(c, err, "invite")
		return
	}

	resp := gin.H{"ok": true}
	if result.Warning != "" {
		// Invite already recorded; still return ok.
		resp["warning"] = result.Warning
	} else {
		resp["link"] = fmt.Sprintf("%s/signup?email=%s",
			h.cfg.Frontend.BaseURL, url.QueryEscape(result.Invite.Email))
	}

	c.JSON(http.StatusOK, resp)
}

// POST /api/accept-invite
func (h *InviteHandler) AcceptInvites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	email, ok := utils.GetUserEmailFromContext(c)
	if !ok || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	accepted, err := h.inviteService.AcceptInvites(userID, email)
	if err != nil {
		respondServiceError(c, err, "invite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "accepted": accepted})
}
