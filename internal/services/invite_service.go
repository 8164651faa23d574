package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boxport/boxport-backend/internal/models"
)

// InviteService is the membership/invite ledger. Invites are keyed by
// (owner, email); accepting one upserts the matching membership row.
type InviteService struct {
	db     *gorm.DB
	scopes *ScopeService
}

func NewInviteService(db *gorm.DB, scopes *ScopeService) *InviteService {
	return &InviteService{
		db:     db,
		scopes: scopes,
	}
}

// InviteResult carries a non-fatal warning alongside the invite: a failed
// upsert must never block the inviter's other actions.
type InviteResult struct {
	Invite  *models.Invite
	Warning string
}

// CreateInvite records a pending invite for email in the inviter's resolved
// scope. If the inviter is themselves a member of someone else's inventory,
// the invite lands in that owner's inventory. Re-inviting a pending email is
// a no-op, not an error.
func (s *InviteService) CreateInvite(inviterID uuid.UUID, email string) (*InviteResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "a valid email is required")
	}

	ownerID, err := s.scopes.Resolve(inviterID)
	if err != nil {
		return nil, err
	}

	invite := &models.Invite{
		OwnerID:    ownerID,
		Email:      email,
		Role:       models.MemberRoleEditor,
		AcceptedAt: nil,
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "email"}},
		DoNothing: true,
	}).Create(invite).Error
	if err != nil {
		// The invite may already exist; surface as a warning, not a failure.
		logrus.WithError(err).WithField("email", email).Warn("Invite upsert failed")
		return &InviteResult{Warning: err.Error()}, nil
	}

	return &InviteResult{Invite: invite}, nil
}

// AcceptInvites links every pending invite for userEmail to userID and marks
// them accepted. Safe to call on every sign-in: a second call finds nothing
// pending and returns 0. The caller's cached scope is invalidated so the new
// membership is visible immediately.
func (s *InviteService) AcceptInvites(userID uuid.UUID, userEmail string) (int, error) {
	if userID == uuid.Nil || userEmail == "" {
		return 0, ErrUnauthenticated
	}

	email := strings.ToLower(strings.TrimSpace(userEmail))

	var invites []models.Invite
	err := s.db.Where("email = ? AND accepted_at IS NULL", email).Find(&invites).Error
	if err != nil {
		// Fail open: a lookup failure must not block sign-in.
		logrus.WithError(err).WithField("email", email).Warn("Invite lookup failed, treating as none pending")
		return 0, nil
	}

	if len(invites) == 0 {
		return 0, nil
	}

	for _, inv := range invites {
		membership := &models.Membership{
			OwnerID:     inv.OwnerID,
			MemberID:    userID,
			MemberEmail: email,
			Role:        models.NormalizeRole(string(inv.Role)),
		}

		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "member_id"}},
			DoNothing: true,
		}).Create(membership).Error
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"owner_id": inv.OwnerID,
				"email":    email,
			}).Warn("Membership upsert failed for invite")
		}
	}

	// Mark accepted in one batched update keyed by email.
	now := time.Now()
	err = s.db.Model(&models.Invite{}).
		Where("email = ? AND accepted_at IS NULL", email).
		Update("accepted_at", now).Error
	if err != nil {
		return 0, fmt.Errorf("failed to mark invites accepted: %w", err)
	}

	// Scope may have changed; next Resolve must see the membership.
	s.scopes.Invalidate(userID)

	return len(invites), nil
}
