package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the UUID in the application so the same models work
// against postgres and the in-memory test database.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type MemberRole string

const (
	MemberRoleEditor MemberRole = "editor"
	MemberRoleViewer MemberRole = "viewer"
)

// NormalizeRole collapses arbitrary role strings to the closed enum.
// Anything that is not exactly "viewer" grants editor access.
func NormalizeRole(raw string) MemberRole {
	if strings.ToLower(strings.TrimSpace(raw)) == string(MemberRoleViewer) {
		return MemberRoleViewer
	}
	return MemberRoleEditor
}
