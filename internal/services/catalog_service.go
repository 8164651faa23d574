package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/database"
	"github.com/boxport/boxport-backend/internal/models"
	"github.com/boxport/boxport-backend/internal/utils"
)

// CatalogService owns the locations -> boxes -> items hierarchy. Every query
// filters by owner_id; a row outside the caller's scope behaves exactly like
// a row that does not exist.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

var autoBoxCodeRe = regexp.MustCompile(`(?i)^BOX-(\d{3})$`)

type LocationSummary struct {
	models.Location
	BoxCount int64 `json:"box_count"`
}

type CreateBoxRequest struct {
	Code       string     `json:"code" validate:"required,box_code"`
	Name       string     `json:"name" validate:"max=255"`
	LocationID *uuid.UUID `json:"location_id"`
}

/* Locations */

func (s *CatalogService) ListLocations(scope uuid.UUID) ([]LocationSummary, error) {
	var locations []models.Location
	if err := s.db.Where("owner_id = ?", scope).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	summaries := make([]LocationSummary, 0, len(locations))
	for _, loc := range locations {
		var count int64
		if err := s.db.Model(&models.Box{}).
			Where("owner_id = ? AND location_id = ?", scope, loc.ID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count boxes for location: %w", err)
		}
		summaries = append(summaries, LocationSummary{Location: loc, BoxCount: count})
	}

	return summaries, nil
}

func (s *CatalogService) CreateLocation(scope uuid.UUID, name string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "location name is required")
	}

	location := &models.Location{
		OwnerID: scope,
		Name:    name,
	}

	if err := s.db.Create(location).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}

// DeleteLocation refuses to delete while any box still references the
// location; the box count is part of the error so the user sees why.
func (s *CatalogService) DeleteLocation(scope, id uuid.UUID) error {
	var location models.Location
	err := s.db.Where("owner_id = ? AND id = ?", scope, id).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("location %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var boxCount int64
	if err := s.db.Model(&models.Box{}).
		Where("owner_id = ? AND location_id = ?", scope, id).
		Count(&boxCount).Error; err != nil {
		return fmt.Errorf("failed to count dependent boxes: %w", err)
	}

	if boxCount > 0 {
		return &HasDependentsError{Resource: "location", Dependent: "box", Count: boxCount}
	}

	if err := s.db.Delete(&location).Error; err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	return nil
}

/* Boxes */

func (s *CatalogService) ListBoxes(scope uuid.UUID) ([]models.Box, error) {
	var boxes []models.Box
	err := s.db.Where("owner_id = ?", scope).
		Order("code ASC").
		Preload("Location").
		Find(&boxes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	return boxes, nil
}

func (s *CatalogService) CreateBox(scope uuid.UUID, req *CreateBoxRequest) (*models.Box, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, NewValidationError("code", "box code is required and must be a single token")
	}

	code := strings.TrimSpace(req.Code)

	var existing int64
	if err := s.db.Model(&models.Box{}).
		Where("owner_id = ? AND code = ?", scope, code).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check box code: %w", err)
	}
	if existing > 0 {
		return nil, NewValidationError("code", "a box with this code already exists")
	}

	if req.LocationID != nil {
		var locCount int64
		if err := s.db.Model(&models.Location{}).
			Where("owner_id = ? AND id = ?", scope, *req.LocationID).
			Count(&locCount).Error; err != nil {
			return nil, fmt.Errorf("failed to check location: %w", err)
		}
		if locCount == 0 {
			return nil, fmt.Errorf("location %w", ErrNotFound)
		}
	}

	box := &models.Box{
		OwnerID:    scope,
		Code:       code,
		Name:       strings.TrimSpace(req.Name),
		LocationID: req.LocationID,
	}

	if err := s.db.Create(box).Error; err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}

	return box, nil
}

// NextBoxCode computes the next auto-generated code: BOX- plus the
// zero-padded successor of the highest strict BOX-### suffix in the scope.
// Free-form codes are ignored for the computation.
func (s *CatalogService) NextBoxCode(scope uuid.UUID) (string, error) {
	var codes []string
	err := s.db.Model(&models.Box{}).
		Where("owner_id = ?", scope).
		Order("code ASC").
		Pluck("code", &codes).Error
	if err != nil {
		return "", fmt.Errorf("failed to load box codes: %w", err)
	}

	max := 0
	for _, code := range codes {
		m := autoBoxCodeRe.FindStringSubmatch(strings.TrimSpace(code))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("BOX-%03d", max+1), nil
}

func (s *CatalogService) GetBox(scope, id uuid.UUID) (*models.Box, error) {
	var box models.Box
	err := s.db.Where("owner_id = ? AND id = ?", scope, id).
		Preload("Location").
		First(&box).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("box %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &box, nil
}

// GetBoxByCode is the scan path: an exact code match within the scope.
func (s *CatalogService) GetBoxByCode(scope uuid.UUID, code string) (*models.Box, error) {
	var box models.Box
	err := s.db.Where("owner_id = ? AND code = ?", scope, strings.TrimSpace(code)).
		Preload("Location").
		First(&box).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("box %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &box, nil
}

/* Items */

func (s *CatalogService) ListItems(scope, boxID uuid.UUID) ([]models.Item, error) {
	if _, err := s.GetBox(scope, boxID); err != nil {
		return nil, err
	}

	var items []models.Item
	err := s.db.Where("owner_id = ? AND box_id = ?", scope, boxID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetItem(scope, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := s.db.Where("owner_id = ? AND id = ?", scope, id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

// SearchItems is a case-insensitive substring search over item names in the
// scope, paginated.
func (s *CatalogService) SearchItems(scope uuid.UUID, params utils.PaginationParams) ([]models.Item, int64, error) {
	query := s.db.Model(&models.Item{}).Where("owner_id = ?", scope).Preload("Box")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "quantity"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search items: %w", err)
	}

	return items, total, nil
}

// MoveItems re-parents itemIDs to destBoxID, all-or-nothing: the update runs
// in one transaction and rolls back unless every listed item was moved.
func (s *CatalogService) MoveItems(scope uuid.UUID, itemIDs []uuid.UUID, destBoxID uuid.UUID) error {
	if len(itemIDs) == 0 {
		return NewValidationError("item_ids", "select at least one item")
	}

	if _, err := s.GetBox(scope, destBoxID); err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("owner_id = ? AND id IN ?", scope, itemIDs).
			Update("box_id", destBoxID)
		if res.Error != nil {
			return fmt.Errorf("failed to move items: %w", res.Error)
		}

		if res.RowsAffected != int64(len(itemIDs)) {
			return fmt.Errorf("move affected %d of %d items, rolled back: %w",
				res.RowsAffected, len(itemIDs), ErrNotFound)
		}

		return nil
	})
}
