package services

import (
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/models"
)

// ScopeService maps an authenticated user to the inventory scope (owner id)
// all of their catalog operations run within. A user with a membership acts
// inside that owner's inventory; everyone else owns their own scope.
//
// Results are cached per user for the lifetime of the process and must be
// invalidated whenever membership state changes (after accepting invites).
type ScopeService struct {
	db *gorm.DB

	mtx   sync.RWMutex
	cache map[uuid.UUID]uuid.UUID
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{
		db:    db,
		cache: make(map[uuid.UUID]uuid.UUID),
	}
}

// Resolve returns the scope id for userID. The earliest membership wins;
// without one the user's own id is the scope.
func (s *ScopeService) Resolve(userID uuid.UUID) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}

	s.mtx.RLock()
	if scope, ok := s.cache[userID]; ok {
		s.mtx.RUnlock()
		return scope, nil
	}
	s.mtx.RUnlock()

	var membership models.Membership
	err := s.db.Where("member_id = ?", userID).
		Order("created_at ASC").
		Limit(1).
		Find(&membership).Error
	if err != nil {
		return uuid.Nil, err
	}

	scope := userID
	if membership.OwnerID != uuid.Nil {
		scope = membership.OwnerID
	}

	s.mtx.Lock()
	s.cache[userID] = scope
	s.mtx.Unlock()

	return scope, nil
}

// Invalidate drops the cached scope for userID so the next Resolve sees
// fresh membership state.
func (s *ScopeService) Invalidate(userID uuid.UUID) {
	s.mtx.Lock()
	delete(s.cache, userID)
	s.mtx.Unlock()
}
