package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/database"
	"github.com/boxport/boxport-backend/internal/models"
	"github.com/boxport/boxport-backend/internal/utils"
)

// ItemService enforces the item lifecycle: quantity rules, photo-asset
// cleanup, and the cascading box delete. Photo operations against the object
// store are best-effort on delete paths and fatal (with rollback) on the
// create path.
type ItemService struct {
	db      *gorm.DB
	catalog *CatalogService
	storage ObjectStorage
}

func NewItemService(db *gorm.DB, catalog *CatalogService, storage ObjectStorage) *ItemService {
	return &ItemService{
		db:      db,
		catalog: catalog,
		storage: storage,
	}
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type UpdateItemRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity" validate:"min=1"`
}

// PhotoUpload is an in-memory photo attachment.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CoerceQuantity floors negative values to min. Quantities are always
// non-negative integers.
func CoerceQuantity(n, min int) int {
	if n < min {
		return min
	}
	return n
}

func (s *ItemService) photoKey(scope, itemID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", scope, itemID, time.Now().UnixMilli(), utils.SafeFileName(fileName))
}

// removePhotoObject deletes the object behind a photo URL, best-effort. The
// returned warning is non-empty when the delete failed; the caller proceeds
// regardless.
func (s *ItemService) removePhotoObject(photoURL string) string {
	if photoURL == "" {
		return ""
	}

	key := utils.ObjectKeyFromURL(photoURL, s.storage.Bucket())
	if key == "" {
		return ""
	}

	if err := s.storage.Remove([]string{key}); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Photo object delete failed")
		return fmt.Sprintf("photo could not be deleted: %v", err)
	}

	return ""
}

// CreateItem inserts the row first, then uploads the photo keyed by the new
// item id, then patches photo_url. If the upload fails the row is rolled
// back so the caller never keeps an item it believes failed.
func (s *ItemService) CreateItem(scope, boxID uuid.UUID, req *CreateItemRequest, photo *PhotoUpload) (*models.Item, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("name", "item name is required")
	}

	if _, err := s.catalog.GetBox(scope, boxID); err != nil {
		return nil, err
	}

	item := &models.Item{
		OwnerID:     scope,
		BoxID:       boxID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Quantity:    CoerceQuantity(req.Quantity, 1),
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if photo == nil {
		return item, nil
	}

	key := s.photoKey(scope, item.ID, photo.FileName)
	photoURL, err := s.storage.Upload(key, photo.Data, photo.ContentType)
	if err != nil {
		// Compensating rollback: the row must not survive a failed upload.
		if delErr := s.db.Where("owner_id = ? AND id = ?", scope, item.ID).
			Delete(&models.Item{}).Error; delErr != nil {
			logrus.WithError(delErr).WithField("item_id", item.ID).
				Error("Rollback of item after failed photo upload also failed")
		}
		return nil, fmt.Errorf("photo upload failed: %w", err)
	}

	err = s.db.Model(item).
		Where("owner_id = ?", scope).
		Update("photo_url", photoURL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record photo url: %w", err)
	}

	item.PhotoURL = photoURL
	return item, nil
}

// UpdateItem edits name/description/quantity and optionally replaces the
// photo. The old object is removed best-effort before the new upload; if the
// upload fails nothing on the row changes, so photo_url never points at an
// object that was not stored.
func (s *ItemService) UpdateItem(scope, id uuid.UUID, req *UpdateItemRequest, photo *PhotoUpload) (*models.Item, string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, "", NewValidationError("name", "item name is required and quantity must be at least 1")
	}

	item, err := s.catalog.GetItem(scope, id)
	if err != nil {
		return nil, "", err
	}

	warning := ""
	newPhotoURL := ""

	if photo != nil {
		warning = s.removePhotoObject(item.PhotoURL)

		key := s.photoKey(scope, item.ID, photo.FileName)
		newPhotoURL, err = s.storage.Upload(key, photo.Data, photo.ContentType)
		if err != nil {
			return nil, warning, fmt.Errorf("photo upload failed: %w", err)
		}
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": strings.TrimSpace(req.Description),
		"quantity":    CoerceQuantity(req.Quantity, 1),
	}
	if newPhotoURL != "" {
		updates["photo_url"] = newPhotoURL
	}

	err = s.db.Model(&models.Item{}).
		Where("owner_id = ? AND id = ?", scope, id).
		Updates(updates).Error
	if err != nil {
		return nil, warning, fmt.Errorf("failed to update item: %w", err)
	}

	updated, err := s.catalog.GetItem(scope, id)
	if err != nil {
		return nil, warning, err
	}

	return updated, warning, nil
}

// AdjustQuantity persists a new quantity from the stepper/direct-set path.
// A result of zero is never written: the current persisted item is returned
// together with ErrConfirmDeleteRequired and the caller must either confirm
// an explicit delete or cancel (the returned item carries the last persisted
// quantity for the cancel path).
func (s *ItemService) AdjustQuantity(scope, id uuid.UUID, newQuantity int) (*models.Item, error) {
	item, err := s.catalog.GetItem(scope, id)
	if err != nil {
		return nil, err
	}

	qty := CoerceQuantity(newQuantity, 0)
	if qty == 0 {
		return item, ErrConfirmDeleteRequired
	}

	err = s.db.Model(&models.Item{}).
		Where("owner_id = ? AND id = ?", scope, id).
		Update("quantity", qty).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	item.Quantity = qty
	return item, nil
}

// DeleteItem is the confirmed delete: photo object first (best-effort), then
// the row. A failed object delete is a warning, never a blocker.
func (s *ItemService) DeleteItem(scope, id uuid.UUID) (string, error) {
	item, err := s.catalog.GetItem(scope, id)
	if err != nil {
		return "", err
	}

	warning := s.removePhotoObject(item.PhotoURL)

	err = s.db.Where("owner_id = ? AND id = ?", scope, id).Delete(&models.Item{}).Error
	if err != nil {
		return warning, fmt.Errorf("failed to delete item: %w", err)
	}

	return warning, nil
}

// DeleteBox cascades: photo objects are removed best-effort, then the items
// and the box go in one transaction. Storage failures are reported but the
// rows are removed regardless.
func (s *ItemService) DeleteBox(scope, boxID uuid.UUID) (int, string, error) {
	if _, err := s.catalog.GetBox(scope, boxID); err != nil {
		return 0, "", err
	}

	var items []models.Item
	err := s.db.Select("id", "photo_url").
		Where("owner_id = ? AND box_id = ?", scope, boxID).
		Find(&items).Error
	if err != nil {
		return 0, "", fmt.Errorf("failed to load box items: %w", err)
	}

	keys := make([]string, 0, len(items))
	for _, it := range items {
		if it.PhotoURL == "" {
			continue
		}
		if key := utils.ObjectKeyFromURL(it.PhotoURL, s.storage.Bucket()); key != "" {
			keys = append(keys, key)
		}
	}

	warning := ""
	if len(keys) > 0 {
		if err := s.storage.Remove(keys); err != nil {
			// If storage delete fails we still continue, otherwise the box
			// could never be deleted.
			logrus.WithError(err).WithField("box_id", boxID).Warn("Photo cleanup failed during box delete")
			warning = fmt.Sprintf("some photos could not be deleted: %v", err)
		}
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? AND box_id = ?", scope, boxID).
			Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if err := tx.Where("owner_id = ? AND id = ?", scope, boxID).
			Delete(&models.Box{}).Error; err != nil {
			return fmt.Errorf("failed to delete box: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, warning, err
	}

	return len(items), warning, nil
}
