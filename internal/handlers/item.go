package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

type ItemHandler struct {
	catalog *services.CatalogService
	items   *services.ItemService
	scopes  *services.ScopeService
}

func NewItemHandler(catalog *services.CatalogService, items *services.ItemService, scopes *services.ScopeService) *ItemHandler {
	return &ItemHandler{
		catalog: catalog,
		items:   items,
		scopes:  scopes,
	}
}

// GET /v1/boxes/:id/items
func (h *ItemHandler) ListForBox(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	boxID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box id", nil)
		return
	}

	items, err := h.catalog.ListItems(scope, boxID)
	if err != nil {
		respondServiceError(c, err, "box")
		return
	}

	utils.SuccessResponse(c, gin.H{"items": items})
}

// POST /v1/boxes/:id/items accepts a multipart form with an optional photo.
func (h *ItemHandler) Create(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	boxID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid box id", nil)
		return
	}

	req := services.CreateItemRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if qty, err := strconv.Atoi(c.DefaultPostForm("quantity", "1")); err == nil {
		req.Quantity = qty
	} else {
		req.Quantity = 1
	}

	photo, err := h.photoFromForm(c)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	item, err := h.items.CreateItem(scope, boxID, &req, photo)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	utils.CreatedResponse(c, item)
}

// GET /v1/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item id", nil)
		return
	}

	item, err := h.catalog.GetItem(scope, id)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, item)
}

// PUT /v1/items/:id accepts a multipart form with an optional replacement photo.
func (h *ItemHandler) Update(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item id", nil)
		return
	}

	req := services.UpdateItemRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if qty, err := strconv.Atoi(c.DefaultPostForm("quantity", "1")); err == nil {
		req.Quantity = qty
	} else {
		req.Quantity = 1
	}

	photo, err := h.photoFromForm(c)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	item, warning, err := h.items.UpdateItem(scope, id, &req, photo)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	if warning != "" {
		utils.SuccessResponseWithMeta(c, item, gin.H{"warning": warning})
		return
	}
	utils.SuccessResponse(c, item)
}

// PUT /v1/items/:id/quantity is the stepper/direct-set path. A target of
// zero is answered with 409 CONFIRM_DELETE_REQUIRED and nothing persists.
func (h *ItemHandler) AdjustQuantity(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item id", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	item, err := h.items.AdjustQuantity(scope, id, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	utils.SuccessResponse(c, item)
}

// DELETE /v1/items/:id is the confirmed delete.
func (h *ItemHandler) Delete(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item id", nil)
		return
	}

	warning, err := h.items.DeleteItem(scope, id)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	resp := gin.H{"deleted": true}
	if warning != "" {
		resp["warning"] = warning
	}

	utils.SuccessResponse(c, resp)
}

// GET /v1/search/items?q=
func (h *ItemHandler) Search(c *gin.Context) {
	_, scope, ok := requireScope(c, h.scopes)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	items, total, err := h.catalog.SearchItems(scope, params)
	if err != nil {
		respondServiceError(c, err, "item")
		return
	}

	result := utils.CreatePaginationResult(items, total, params)
	utils.PaginatedResponse(c, result)
}

func (h *ItemHandler) photoFromForm(c *gin.Context) (*services.PhotoUpload, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		// No photo attached.
		return nil, nil
	}
	return readPhotoUpload(file)
}
