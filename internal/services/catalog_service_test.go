package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/models"
	"github.com/boxport/boxport-backend/internal/utils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	catalog *CatalogService
	scope   uuid.UUID
	other   uuid.UUID
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.catalog = NewCatalogService(s.db)
	s.scope = uuid.New()
	s.other = uuid.New()
}

func (s *CatalogServiceTestSuite) mustCreateBox(scope uuid.UUID, code string) *models.Box {
	box, err := s.catalog.CreateBox(scope, &CreateBoxRequest{Code: code})
	s.Require().NoError(err)
	return box
}

func (s *CatalogServiceTestSuite) mustCreateItem(scope, boxID uuid.UUID, name string) *models.Item {
	item := &models.Item{OwnerID: scope, BoxID: boxID, Name: name, Quantity: 1}
	s.Require().NoError(s.db.Create(item).Error)
	return item
}

func (s *CatalogServiceTestSuite) TestLocationLifecycle() {
	loc, err := s.catalog.CreateLocation(s.scope, "  Garage  ")
	s.NoError(err)
	s.Equal("Garage", loc.Name)

	_, err = s.catalog.CreateLocation(s.scope, "   ")
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	summaries, err := s.catalog.ListLocations(s.scope)
	s.NoError(err)
	s.Len(summaries, 1)
	s.EqualValues(0, summaries[0].BoxCount)

	s.NoError(s.catalog.DeleteLocation(s.scope, loc.ID))
}

func (s *CatalogServiceTestSuite) TestDeleteLocationBlockedByBoxes() {
	loc, err := s.catalog.CreateLocation(s.scope, "Attic")
	s.Require().NoError(err)

	_, err = s.catalog.CreateBox(s.scope, &CreateBoxRequest{Code: "BOX-001", LocationID: &loc.ID})
	s.Require().NoError(err)

	err = s.catalog.DeleteLocation(s.scope, loc.ID)
	var depErr *HasDependentsError
	s.Require().ErrorAs(err, &depErr)
	s.Equal("box", depErr.Dependent)
	s.EqualValues(1, depErr.Count)

	// Still present after the refused delete.
	summaries, err := s.catalog.ListLocations(s.scope)
	s.NoError(err)
	s.Len(summaries, 1)
	s.EqualValues(1, summaries[0].BoxCount)
}

func (s *CatalogServiceTestSuite) TestDeleteLocationScoped() {
	loc, err := s.catalog.CreateLocation(s.scope, "Shed")
	s.Require().NoError(err)

	err = s.catalog.DeleteLocation(s.other, loc.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestCreateBoxDuplicateCode() {
	s.mustCreateBox(s.scope, "BOX-001")

	_, err := s.catalog.CreateBox(s.scope, &CreateBoxRequest{Code: "BOX-001"})
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	// The same code is fine in another scope.
	_, err = s.catalog.CreateBox(s.other, &CreateBoxRequest{Code: "BOX-001"})
	s.NoError(err)
}

func (s *CatalogServiceTestSuite) TestCreateBoxForeignLocationRejected() {
	loc, err := s.catalog.CreateLocation(s.other, "Basement")
	s.Require().NoError(err)

	_, err = s.catalog.CreateBox(s.scope, &CreateBoxRequest{Code: "BOX-001", LocationID: &loc.ID})
	s.ErrorIs(err, ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestNextBoxCode() {
	code, err := s.catalog.NextBoxCode(s.scope)
	s.NoError(err)
	s.Equal("BOX-001", code)

	s.mustCreateBox(s.scope, "BOX-001")
	s.mustCreateBox(s.scope, "BOX-003")
	s.mustCreateBox(s.scope, "pantry-stuff")
	s.mustCreateBox(s.other, "BOX-099")

	code, err = s.catalog.NextBoxCode(s.scope)
	s.NoError(err)
	s.Equal("BOX-004", code)
}

func (s *CatalogServiceTestSuite) TestGetBoxByCode() {
	box := s.mustCreateBox(s.scope, "BOX-007")

	found, err := s.catalog.GetBoxByCode(s.scope, " BOX-007 ")
	s.NoError(err)
	s.Equal(box.ID, found.ID)

	_, err = s.catalog.GetBoxByCode(s.scope, "BOX-999")
	s.ErrorIs(err, ErrNotFound)

	// A scan against someone else's box behaves like a miss.
	_, err = s.catalog.GetBoxByCode(s.other, "BOX-007")
	s.ErrorIs(err, ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestListItemsOrderedNewestFirst() {
	box := s.mustCreateBox(s.scope, "BOX-001")

	first := s.mustCreateItem(s.scope, box.ID, "old")
	time.Sleep(5 * time.Millisecond)
	second := s.mustCreateItem(s.scope, box.ID, "new")

	items, err := s.catalog.ListItems(s.scope, box.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal(second.ID, items[0].ID)
	s.Equal(first.ID, items[1].ID)
}

func (s *CatalogServiceTestSuite) TestListItemsForeignBox() {
	box := s.mustCreateBox(s.other, "BOX-001")
	_, err := s.catalog.ListItems(s.scope, box.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *CatalogServiceTestSuite) TestSearchItemsCaseInsensitive() {
	box := s.mustCreateBox(s.scope, "BOX-001")
	s.mustCreateItem(s.scope, box.ID, "Winter Jacket")
	s.mustCreateItem(s.scope, box.ID, "Socks")

	otherBox := s.mustCreateBox(s.other, "BOX-001")
	s.mustCreateItem(s.other, otherBox.ID, "Jacket Spare")

	items, total, err := s.catalog.SearchItems(s.scope, utils.PaginationParams{
		Page: 1, Limit: 10, Sort: "name", Order: "asc", Search: "jACKet",
	})
	s.NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(items, 1)
	s.Equal("Winter Jacket", items[0].Name)
}

func (s *CatalogServiceTestSuite) TestMoveItems() {
	src := s.mustCreateBox(s.scope, "BOX-001")
	dst := s.mustCreateBox(s.scope, "BOX-002")
	a := s.mustCreateItem(s.scope, src.ID, "a")
	b := s.mustCreateItem(s.scope, src.ID, "b")

	err := s.catalog.MoveItems(s.scope, []uuid.UUID{a.ID, b.ID}, dst.ID)
	s.NoError(err)

	moved, err := s.catalog.ListItems(s.scope, dst.ID)
	s.NoError(err)
	s.Len(moved, 2)
}

func (s *CatalogServiceTestSuite) TestMoveItemsAllOrNothing() {
	src := s.mustCreateBox(s.scope, "BOX-001")
	dst := s.mustCreateBox(s.scope, "BOX-002")
	a := s.mustCreateItem(s.scope, src.ID, "a")

	err := s.catalog.MoveItems(s.scope, []uuid.UUID{a.ID, uuid.New()}, dst.ID)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNotFound))

	// The existing item must not have moved.
	got, err := s.catalog.GetItem(s.scope, a.ID)
	s.NoError(err)
	s.Equal(src.ID, got.BoxID)
}

func (s *CatalogServiceTestSuite) TestMoveItemsValidation() {
	dst := s.mustCreateBox(s.scope, "BOX-002")

	err := s.catalog.MoveItems(s.scope, nil, dst.ID)
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	err = s.catalog.MoveItems(s.scope, []uuid.UUID{uuid.New()}, uuid.New())
	s.ErrorIs(err, ErrNotFound)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
