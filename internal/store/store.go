package store

import (
	"context"

	"github.com/scai-digital/cascade/internal/types"
)

// Store defines the interface contract for all workspace persistence.
// Each logical store (goals table, kpi table, chat-side state) is one
// serialized blob; writes are synchronous and last-write-wins.
type Store interface {
	// LoadTable returns the persisted state of a table. Missing or corrupt
	// data yields an empty state, never an error; that first-run state is
	// seeded with the fixed demo dataset and persisted. A readable persisted
	// state with zero rows is served as-is.
	LoadTable(ctx context.Context, table types.TableID) (*types.GoalsState, error)

	// SaveTable serializes and persists the full table state.
	SaveTable(ctx context.Context, table types.TableID, state *types.GoalsState) error

	// AppendRow adds a row at the end of the base order and returns the
	// resulting state.
	AppendRow(ctx context.Context, table types.TableID, row types.GoalRow) (*types.GoalsState, error)

	// ReplaceRow replaces the row whose id matches row.ID wholesale.
	// Returns ErrRowNotFound if no row matches.
	ReplaceRow(ctx context.Context, table types.TableID, row types.GoalRow) error

	// DeleteRow removes the row with the given id.
	// Returns ErrRowNotFound if no row matches.
	DeleteRow(ctx context.Context, table types.TableID, id string) error

	LoadChats(ctx context.Context) ([]types.StoredChat, error)
	SaveChats(ctx context.Context, chats []types.StoredChat) error
	LoadSettings(ctx context.Context) (types.ChatSettings, error)
	SaveSettings(ctx context.Context, settings types.ChatSettings) error
	LoadUploadedFiles(ctx context.Context) ([]types.StoredUploadedFile, error)
	SaveUploadedFiles(ctx context.Context, files []types.StoredUploadedFile) error
	LoadCollections(ctx context.Context) ([]types.StoredCollection, error)
	SaveCollections(ctx context.Context, collections []types.StoredCollection) error

	// Snapshot serializes every persisted blob into one JSON document,
	// suitable for backup upload.
	Snapshot(ctx context.Context) ([]byte, error)

	Close() error
}
