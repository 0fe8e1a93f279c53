// Package session implements the single-row draft/commit/cancel state
// machine layered on the row store. One session exists per table; only one
// row may be in editing state at a time.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/scai-digital/cascade/internal/store"
	"github.com/scai-digital/cascade/internal/types"
)

var (
	// ErrEditInProgress is returned by Start when another row is already
	// being edited.
	ErrEditInProgress = errors.New("another row is already being edited")

	// ErrNoActiveEdit is returned by draft operations outside the editing
	// state.
	ErrNoActiveEdit = errors.New("no active edit")

	// ErrUnknownField is returned when a draft update names a field outside
	// the row schema.
	ErrUnknownField = errors.New("unknown field")
)

// Session is the per-table editing state machine: Idle, or Editing one row
// with a draft copy. Drafts never touch the persisted store until Commit.
type Session struct {
	table types.TableID
	store store.Store

	mu    sync.Mutex
	rowID string
	draft *types.GoalRow
}

// New creates an idle session for the given table.
func New(table types.TableID, s store.Store) *Session {
	return &Session{table: table, store: s}
}

// Active reports whether a row edit is in flight, and which row.
func (s *Session) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowID, s.draft != nil
}

// Draft returns a copy of the current draft row.
func (s *Session) Draft() (types.GoalRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return types.GoalRow{}, false
	}
	return *s.draft, true
}

// Start moves Idle -> Editing with a copy of the given row as the draft.
func (s *Session) Start(row types.GoalRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		return ErrEditInProgress
	}
	draft := row
	s.rowID = row.ID
	s.draft = &draft
	return nil
}

// UpdateField replaces one field of the draft. Valid only while editing.
func (s *Session) UpdateField(field types.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoActiveEdit
	}
	if !s.draft.SetField(field, value) {
		return ErrUnknownField
	}
	return nil
}

// Commit writes the draft back into the row store by id-match replacement
// and returns to Idle. The write is synchronous: it is visible to the next
// view derivation and aggregation read.
func (s *Session) Commit(ctx context.Context) (types.GoalRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return types.GoalRow{}, ErrNoActiveEdit
	}
	row := *s.draft
	if err := s.store.ReplaceRow(ctx, s.table, row); err != nil {
		// The row may have been deleted out from under the edit; either way
		// the session resets so the table is not left locked.
		s.reset()
		return types.GoalRow{}, err
	}
	s.reset()
	return row, nil
}

// Cancel discards the draft and returns to Idle without persisting.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrNoActiveEdit
	}
	s.reset()
	return nil
}

// RowDeleted force-cancels the edit when the row being edited is deleted:
// delete wins over an in-flight edit.
func (s *Session) RowDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil && s.rowID == id {
		s.reset()
	}
}

func (s *Session) reset() {
	s.rowID = ""
	s.draft = nil
}
