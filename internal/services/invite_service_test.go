package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/models"
)

type InviteServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	scopes  *ScopeService
	invites *InviteService
	owner   *models.User
	guest   *models.User
}

func (s *InviteServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.scopes = NewScopeService(s.db)
	s.invites = NewInviteService(s.db, s.scopes)

	s.owner = s.mustCreateUser("owner@example.com")
	s.guest = s.mustCreateUser("guest@example.com")
}

func (s *InviteServiceTestSuite) mustCreateUser(email string) *models.User {
	user := &models.User{Email: email}
	s.Require().NoError(user.SetPassword("hunter22"))
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *InviteServiceTestSuite) TestCreateInviteValidation() {
	_, err := s.invites.CreateInvite(s.owner.ID, "   ")
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	_, err = s.invites.CreateInvite(s.owner.ID, "not-an-email")
	s.ErrorAs(err, &vErr)
}

func (s *InviteServiceTestSuite) TestCreateInviteNormalizesEmail() {
	res, err := s.invites.CreateInvite(s.owner.ID, "  Guest@Example.COM ")
	s.Require().NoError(err)
	s.Require().NotNil(res.Invite)
	s.Equal("guest@example.com", res.Invite.Email)
	s.Equal(s.owner.ID, res.Invite.OwnerID)
	s.Nil(res.Invite.AcceptedAt)
}

func (s *InviteServiceTestSuite) TestAcceptFlow() {
	_, err := s.invites.CreateInvite(s.owner.ID, s.guest.Email)
	s.Require().NoError(err)

	accepted, err := s.invites.AcceptInvites(s.guest.ID, s.guest.Email)
	s.Require().NoError(err)
	s.Equal(1, accepted)

	// The guest now acts inside the owner's inventory.
	scope, err := s.scopes.Resolve(s.guest.ID)
	s.NoError(err)
	s.Equal(s.owner.ID, scope)

	// A second call finds nothing pending.
	accepted, err = s.invites.AcceptInvites(s.guest.ID, s.guest.Email)
	s.NoError(err)
	s.Equal(0, accepted)

	var invite models.Invite
	s.Require().NoError(s.db.Where("email = ?", s.guest.Email).First(&invite).Error)
	s.NotNil(invite.AcceptedAt)

	var memberships int64
	s.Require().NoError(s.db.Model(&models.Membership{}).Count(&memberships).Error)
	s.EqualValues(1, memberships)
}

func (s *InviteServiceTestSuite) TestAcceptInvalidatesCachedScope() {
	// Prime the cache with the guest's own scope.
	scope, err := s.scopes.Resolve(s.guest.ID)
	s.Require().NoError(err)
	s.Equal(s.guest.ID, scope)

	_, err = s.invites.CreateInvite(s.owner.ID, s.guest.Email)
	s.Require().NoError(err)

	_, err = s.invites.AcceptInvites(s.guest.ID, s.guest.Email)
	s.Require().NoError(err)

	scope, err = s.scopes.Resolve(s.guest.ID)
	s.NoError(err)
	s.Equal(s.owner.ID, scope)
}

func (s *InviteServiceTestSuite) TestInviteFromMemberLandsInOwnersScope() {
	_, err := s.invites.CreateInvite(s.owner.ID, s.guest.Email)
	s.Require().NoError(err)
	_, err = s.invites.AcceptInvites(s.guest.ID, s.guest.Email)
	s.Require().NoError(err)

	// The guest invites a third person; the invite belongs to the owner.
	res, err := s.invites.CreateInvite(s.guest.ID, "third@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(res.Invite)
	s.Equal(s.owner.ID, res.Invite.OwnerID)
}

func (s *InviteServiceTestSuite) TestReinvitePendingEmailIsNoop() {
	_, err := s.invites.CreateInvite(s.owner.ID, s.guest.Email)
	s.Require().NoError(err)
	_, err = s.invites.CreateInvite(s.owner.ID, s.guest.Email)
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.db.Model(&models.Invite{}).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *InviteServiceTestSuite) TestAcceptRequiresIdentity() {
	_, err := s.invites.AcceptInvites(uuid.Nil, "x@example.com")
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.invites.AcceptInvites(s.guest.ID, "")
	s.ErrorIs(err, ErrUnauthenticated)
}

func TestInviteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InviteServiceTestSuite))
}

func TestScopeResolveWithoutMembership(t *testing.T) {
	db := newTestDB(t)
	scopes := NewScopeService(db)

	userID := uuid.New()
	scope, err := scopes.Resolve(userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if scope != userID {
		t.Fatalf("expected own scope, got %s", scope)
	}

	if _, err := scopes.Resolve(uuid.Nil); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
