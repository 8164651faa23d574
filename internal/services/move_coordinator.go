package services

import (
	"sync"

	"github.com/google/uuid"
)

// MoveCoordinator tracks one in-progress bulk move per user: the source box,
// the selected item ids and the chosen destination. State is in-process and
// single-session by design; entering move mode on a different box resets it.
type MoveCoordinator struct {
	catalog *CatalogService

	mtx      sync.Mutex
	sessions map[uuid.UUID]*moveSession
}

type moveSession struct {
	scope       uuid.UUID
	sourceBoxID uuid.UUID
	selected    map[uuid.UUID]struct{}
	destBoxID   *uuid.UUID
}

// MoveState is the session snapshot returned to the caller.
type MoveState struct {
	SourceBoxID uuid.UUID   `json:"source_box_id"`
	Selected    []uuid.UUID `json:"selected"`
	DestBoxID   *uuid.UUID  `json:"dest_box_id,omitempty"`
}

// MovePlan describes a validated pending move awaiting confirmation.
type MovePlan struct {
	SourceBoxID uuid.UUID   `json:"source_box_id"`
	DestBoxID   uuid.UUID   `json:"dest_box_id"`
	ItemIDs     []uuid.UUID `json:"item_ids"`
	Count       int         `json:"count"`
}

func NewMoveCoordinator(catalog *CatalogService) *MoveCoordinator {
	return &MoveCoordinator{
		catalog:  catalog,
		sessions: make(map[uuid.UUID]*moveSession),
	}
}

// Enter starts (or restarts) move mode for userID on sourceBoxID. Selection
// and destination always start empty.
func (m *MoveCoordinator) Enter(userID, scope, sourceBoxID uuid.UUID) (*MoveState, error) {
	if _, err := m.catalog.GetBox(scope, sourceBoxID); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.sessions[userID] = &moveSession{
		scope:       scope,
		sourceBoxID: sourceBoxID,
		selected:    make(map[uuid.UUID]struct{}),
	}

	return m.snapshotLocked(userID), nil
}

// Exit leaves move mode and discards all selection state.
func (m *MoveCoordinator) Exit(userID uuid.UUID) {
	m.mtx.Lock()
	delete(m.sessions, userID)
	m.mtx.Unlock()
}

func (m *MoveCoordinator) session(userID, sourceBoxID uuid.UUID) (*moveSession, error) {
	sess, ok := m.sessions[userID]
	if !ok || sess.sourceBoxID != sourceBoxID {
		return nil, NewValidationError("box_id", "no move session for this box")
	}
	return sess, nil
}

func (m *MoveCoordinator) ToggleSelect(userID, sourceBoxID, itemID uuid.UUID) (*MoveState, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	sess, err := m.session(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	if _, ok := sess.selected[itemID]; ok {
		delete(sess.selected, itemID)
	} else {
		sess.selected[itemID] = struct{}{}
	}

	return m.snapshotLocked(userID), nil
}

// SelectAll selects every item currently in the source box.
func (m *MoveCoordinator) SelectAll(userID, sourceBoxID uuid.UUID) (*MoveState, error) {
	m.mtx.Lock()
	sess, err := m.session(userID, sourceBoxID)
	m.mtx.Unlock()
	if err != nil {
		return nil, err
	}

	items, err := m.catalog.ListItems(sess.scope, sourceBoxID)
	if err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	sess, err = m.session(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	sess.selected = make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		sess.selected[item.ID] = struct{}{}
	}

	return m.snapshotLocked(userID), nil
}

func (m *MoveCoordinator) Clear(userID, sourceBoxID uuid.UUID) (*MoveState, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	sess, err := m.session(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	sess.selected = make(map[uuid.UUID]struct{})
	return m.snapshotLocked(userID), nil
}

func (m *MoveCoordinator) SetDestination(userID, sourceBoxID, destBoxID uuid.UUID) (*MoveState, error) {
	m.mtx.Lock()
	sess, err := m.session(userID, sourceBoxID)
	m.mtx.Unlock()
	if err != nil {
		return nil, err
	}

	if _, err := m.catalog.GetBox(sess.scope, destBoxID); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	sess, err = m.session(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	sess.destBoxID = &destBoxID
	return m.snapshotLocked(userID), nil
}

// RequestMove validates the pending move. Each violation has its own
// message: empty selection, missing destination, destination == source.
func (m *MoveCoordinator) RequestMove(userID, sourceBoxID uuid.UUID) (*MovePlan, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	sess, err := m.session(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	if len(sess.selected) == 0 {
		return nil, NewValidationError("selection", "select at least one item")
	}
	if sess.destBoxID == nil {
		return nil, NewValidationError("destination", "choose a destination box")
	}
	if *sess.destBoxID == sess.sourceBoxID {
		return nil, NewValidationError("destination", "destination must be a different box")
	}

	ids := make([]uuid.UUID, 0, len(sess.selected))
	for id := range sess.selected {
		ids = append(ids, id)
	}

	return &MovePlan{
		SourceBoxID: sess.sourceBoxID,
		DestBoxID:   *sess.destBoxID,
		ItemIDs:     ids,
		Count:       len(ids),
	}, nil
}

// ConfirmMove executes a validated plan. On success the selection and
// destination are reset; on failure they stay intact so the user can retry.
func (m *MoveCoordinator) ConfirmMove(userID, sourceBoxID uuid.UUID) (*MovePlan, error) {
	plan, err := m.RequestMove(userID, sourceBoxID)
	if err != nil {
		return nil, err
	}

	m.mtx.Lock()
	sess, err := m.session(userID, sourceBoxID)
	m.mtx.Unlock()
	if err != nil {
		return nil, err
	}

	if err := m.catalog.MoveItems(sess.scope, plan.ItemIDs, plan.DestBoxID); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if sess, sErr := m.session(userID, sourceBoxID); sErr == nil {
		sess.selected = make(map[uuid.UUID]struct{})
		sess.destBoxID = nil
	}

	return plan, nil
}

// State returns the current session snapshot, or nil when move mode is off.
func (m *MoveCoordinator) State(userID, sourceBoxID uuid.UUID) *MoveState {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, err := m.session(userID, sourceBoxID); err != nil {
		return nil
	}
	return m.snapshotLocked(userID)
}

func (m *MoveCoordinator) snapshotLocked(userID uuid.UUID) *MoveState {
	sess := m.sessions[userID]
	selected := make([]uuid.UUID, 0, len(sess.selected))
	for id := range sess.selected {
		selected = append(selected, id)
	}
	return &MoveState{
		SourceBoxID: sess.sourceBoxID,
		Selected:    selected,
		DestBoxID:   sess.destBoxID,
	}
}
