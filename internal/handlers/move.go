package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

type MoveHandler struct {
	coordinator *services.MoveCoordinator
	scopes      *services.ScopeService
}

func NewMoveHandler(coordinator *services.MoveCoordinator, scopes *services.ScopeService) *MoveHandler {
	return &MoveHandler{
		coordinator: coordinator,
		scopes:      scopes,
	}
}

func (h *MoveHandler) boxID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// POST /v1/boxes/:id/move enters move mode.
func (h *MoveHandler) Enter(c *gin.Context) {
	userID, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	state, err := h.coordinator.Enter(userID, scope, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, state)
}

// DELETE /v1/boxes/:id/move exits move mode, discarding selection.
func (h *MoveHandler) Exit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	h.coordinator.Exit(userID)
	utils.SuccessResponse(c, gin.H{"move_mode": false})
}

// GET /v1/boxes/:id/move reports the current session, if any.
func (h *MoveHandler) State(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	state := h.coordinator.State(userID, boxID)
	if state == nil {
		utils.SuccessResponse(c, gin.H{"move_mode": false})
		return
	}

	utils.SuccessResponse(c, state)
}

// POST /v1/boxes/:id/move/select
func (h *MoveHandler) ToggleSelect(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	var req struct {
		ItemID uuid.UUID `json:"item_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == uuid.Nil {
		utils.BadRequestResponse(c, "item_id is required", nil)
		return
	}

	state, err := h.coordinator.ToggleSelect(userID, boxID, req.ItemID)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, state)
}

// POST /v1/boxes/:id/move/select-all
func (h *MoveHandler) SelectAll(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	state, err := h.coordinator.SelectAll(userID, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, state)
}

// POST /v1/boxes/:id/move/clear
func (h *MoveHandler) Clear(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	state, err := h.coordinator.Clear(userID, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, state)
}

// PUT /v1/boxes/:id/move/destination
func (h *MoveHandler) SetDestination(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	var req struct {
		BoxID uuid.UUID `json:"box_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BoxID == uuid.Nil {
		utils.BadRequestResponse(c, "box_id is required", nil)
		return
	}

	state, err := h.coordinator.SetDestination(userID, boxID, req.BoxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, state)
}

// POST /v1/boxes/:id/move/request validates and returns the pending plan.
func (h *MoveHandler) Request(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	plan, err := h.coordinator.RequestMove(userID, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, plan)
}

// POST /v1/boxes/:id/move/confirm executes the pending plan.
func (h *MoveHandler) Confirm(c *gin.Context) {
	userID, _, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}
	boxID, ok := h.boxID(c)
	if !ok {
		return
	}

	plan, err := h.coordinator.ConfirmMove(userID, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, gin.H{"moved": plan.Count, "dest_box_id": plan.DestBoxID})
}
