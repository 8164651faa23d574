package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

type LocationHandler struct {
	catalog *services.CatalogService
	scopes  *services.ScopeService
}

func NewLocationHandler(catalog *services.CatalogService, scopes *services.ScopeService) *LocationHandler {
	return &LocationHandler{
		catalog: catalog,
		scopes:  scopes,
	}
}

// GET /v1/locations
func (h *LocationHandler) List(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	locations, err := h.catalog.ListLocations(scope)
	if err != nil {
		respondServiceError(c, err, "location")
		return
	}

	utils.SuccessResponse(c, gin.H{"locations": locations})
}

// POST /v1/locations
func (h *LocationHandler) Create(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	location, err := h.catalog.CreateLocation(scope, req.Name)
	if err != nil {
		respondServiceError(c, err, "location")
		return
	}

	utils.CreatedResponse(c, location)
}

// DELETE /v1/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid location id", nil)
		return
	}

	if err := h.catalog.DeleteLocation(scope, id); err != nil {
		respondServiceError(c, err, "location")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
