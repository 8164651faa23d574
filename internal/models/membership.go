package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership grants a non-owner user access to an owner's inventory.
// Rows are append-only; there is no revoke flow.
type Membership struct {
	BaseModel
	OwnerID     uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_owner_member"`
	MemberID    uuid.UUID  `json:"member_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_owner_member;index"`
	MemberEmail string     `json:"member_email" gorm:"size:255;not null"`
	Role        MemberRole `json:"role" gorm:"type:varchar(20);default:'editor'"`
}

// Invite is a pending or accepted offer of membership, keyed by email.
// AcceptedAt transitions from null to a timestamp exactly once.
type Invite struct {
	BaseModel
	OwnerID    uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_invites_owner_email"`
	Email      string     `json:"email" gorm:"size:255;not null;uniqueIndex:idx_invites_owner_email;index"`
	Role       MemberRole `json:"role" gorm:"type:varchar(20);default:'editor'"`
	AcceptedAt *time.Time `json:"accepted_at"`
}
