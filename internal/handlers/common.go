package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

const maxPhotoSize = 10 * 1024 * 1024 // 10MB

// currentUserID reads the authenticated user id placed in the context by the
// auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireScope resolves the caller's inventory scope. Every catalog handler
// goes through here so no query ever runs unscoped.
func requireScope(c *gin.Context, scopes *services.ScopeService) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, uuid.Nil, false
	}

	scope, err := scopes.Resolve(userID)
	if err != nil {
		respondServiceError(c, err, "scope")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, scope, true
}

// respondServiceError maps the service error taxonomy onto HTTP responses.
func respondServiceError(c *gin.Context, err error, resource string) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		utils.BadRequestResponse(c, validationErr.Message, gin.H{"field": validationErr.Field})
		return
	}

	var dependentsErr *services.HasDependentsError
	if errors.As(err, &dependentsErr) {
		utils.ConflictResponse(c, "HAS_DEPENDENTS", dependentsErr.Error(), gin.H{
			"dependent": dependentsErr.Dependent,
			"count":     dependentsErr.Count,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrConfirmDeleteRequired):
		utils.ConflictResponse(c, "CONFIRM_DELETE_REQUIRED",
			"Quantity would reach zero; confirm deletion instead", nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, "")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// readPhotoUpload pulls an optional "photo" file out of a multipart form.
// Returns nil when no photo was attached.
func readPhotoUpload(file *multipart.FileHeader) (*services.PhotoUpload, error) {
	if file == nil {
		return nil, nil
	}

	if file.Size > maxPhotoSize {
		return nil, services.NewValidationError("photo", "photo exceeds the 10MB limit")
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	if !services.ValidFileSignature(data) {
		return nil, services.NewValidationError("photo", "photo must be a JPEG, PNG, GIF or WebP image")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return &services.PhotoUpload{
		FileName:    file.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
