package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

type BoxHandler struct {
	catalog *services.CatalogService
	items   *services.ItemService
	scopes  *services.ScopeService
}

func NewBoxHandler(catalog *services.CatalogService, items *services.ItemService, scopes *services.ScopeService) *BoxHandler {
	return &BoxHandler{
		catalog: catalog,
		items:   items,
		scopes:  scopes,
	}
}

// GET /v1/boxes
func (h *BoxHandler) List(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	boxes, err := h.catalog.ListBoxes(scope)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, gin.H{"boxes": boxes})
}

// POST /v1/boxes
func (h *BoxHandler) Create(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	var req services.CreateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	box, err := h.catalog.CreateBox(scope, &req)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.CreatedResponse(c, box)
}

// GET /v1/boxes/next-code
func (h *BoxHandler) NextCode(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	code, err := h.catalog.NextBoxCode(scope)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, gin.H{"code": code})
}

// GET /v1/boxes/code/:code is the scan path.
func (h *BoxHandler) GetByCode(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	box, err := h.catalog.GetBoxByCode(scope, c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, box)
}

// GET /v1/boxes/:id
func (h *BoxHandler) Get(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box id", nil)
		return
	}

	box, err := h.catalog.GetBox(scope, id)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, box)
}

// DELETE /v1/boxes/:id cascades to items and their photos.
func (h *BoxHandler) Delete(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box id", nil)
		return
	}

	deleted, warning, err := h.items.DeleteBox(scope, id)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	resp := gin.H{"deleted": true, "items_deleted": deleted}
	if warning != "" {
		resp["warning"] = warning
	}

	utils.SuccessResponse(c, resp)
}
