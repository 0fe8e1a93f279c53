package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scai-digital/cascade/internal/types"
	_ "modernc.org/sqlite"
)

// Persisted blob keys. Table blobs use the table id directly; the chat-side
// keys mirror the legacy client's storage keys.
const (
	keyChats         = "chats"
	keySettings      = "settings"
	keyUploadedFiles = "uploaded_files"
	keyCollections   = "collections"
)

// SQLiteStore persists every workspace blob in a single key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if necessary creates) the workspace database.
// It enables WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getBlob(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM workspace_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) putBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadTable reads the persisted table state. Missing or corrupt data is a
// first run: it decodes to an empty state which is seeded with the demo
// dataset and persisted immediately. A readable persisted state is served
// as-is, so a deliberately emptied table stays empty.
func (s *SQLiteStore) LoadTable(ctx context.Context, table types.TableID) (*types.GoalsState, error) {
	if _, ok := types.Spec(table); !ok {
		return nil, ErrUnknownTable
	}

	raw, err := s.getBlob(ctx, string(table))
	if err != nil {
		return nil, err
	}

	state, readable := decodeState(raw)
	if !readable {
		state.Rows = demoRows(table)
		if err := s.SaveTable(ctx, table, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// SaveTable serializes and persists the full table state.
func (s *SQLiteStore) SaveTable(ctx context.Context, table types.TableID, state *types.GoalsState) error {
	if _, ok := types.Spec(table); !ok {
		return ErrUnknownTable
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s state: %w", table, err)
	}
	return s.putBlob(ctx, string(table), data)
}

// AppendRow adds a row at the end of the base order.
func (s *SQLiteStore) AppendRow(ctx context.Context, table types.TableID, row types.GoalRow) (*types.GoalsState, error) {
	state, err := s.LoadTable(ctx, table)
	if err != nil {
		return nil, err
	}
	state.Rows = append(state.Rows, row)
	if err := s.SaveTable(ctx, table, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ReplaceRow replaces the row matching row.ID wholesale; rows are never
// mutated partially in place.
func (s *SQLiteStore) ReplaceRow(ctx context.Context, table types.TableID, row types.GoalRow) error {
	state, err := s.LoadTable(ctx, table)
	if err != nil {
		return err
	}
	for i := range state.Rows {
		if state.Rows[i].ID == row.ID {
			state.Rows[i] = row
			return s.SaveTable(ctx, table, state)
		}
	}
	return ErrRowNotFound
}

// DeleteRow removes the row with the given id.
func (s *SQLiteStore) DeleteRow(ctx context.Context, table types.TableID, id string) error {
	state, err := s.LoadTable(ctx, table)
	if err != nil {
		return err
	}
	kept := state.Rows[:0]
	found := false
	for _, row := range state.Rows {
		if row.ID == id {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return ErrRowNotFound
	}
	state.Rows = kept
	return s.SaveTable(ctx, table, state)
}

// loadList decodes a persisted JSON list, swallowing corruption to empty.
func loadList[T any](raw []byte) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return out
	}
	if decoded == nil {
		return out
	}
	return decoded
}

func (s *SQLiteStore) LoadChats(ctx context.Context) ([]types.StoredChat, error) {
	raw, err := s.getBlob(ctx, keyChats)
	if err != nil {
		return nil, err
	}
	return loadList[types.StoredChat](raw), nil
}

func (s *SQLiteStore) SaveChats(ctx context.Context, chats []types.StoredChat) error {
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("encode chats: %w", err)
	}
	return s.putBlob(ctx, keyChats, data)
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (types.ChatSettings, error) {
	var settings types.ChatSettings
	raw, err := s.getBlob(ctx, keySettings)
	if err != nil {
		return settings, err
	}
	if len(raw) > 0 {
		// Corrupt settings fall back to zero values.
		_ = json.Unmarshal(raw, &settings)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings types.ChatSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.putBlob(ctx, keySettings, data)
}

func (s *SQLiteStore) LoadUploadedFiles(ctx context.Context) ([]types.StoredUploadedFile, error) {
	raw, err := s.getBlob(ctx, keyUploadedFiles)
	if err != nil {
		return nil, err
	}
	return loadList[types.StoredUploadedFile](raw), nil
}

func (s *SQLiteStore) SaveUploadedFiles(ctx context.Context, files []types.StoredUploadedFile) error {
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode uploaded files: %w", err)
	}
	return s.putBlob(ctx, keyUploadedFiles, data)
}

func (s *SQLiteStore) LoadCollections(ctx context.Context) ([]types.StoredCollection, error) {
	raw, err := s.getBlob(ctx, keyCollections)
	if err != nil {
		return nil, err
	}
	return loadList[types.StoredCollection](raw), nil
}

func (s *SQLiteStore) SaveCollections(ctx context.Context, collections []types.StoredCollection) error {
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("encode collections: %w", err)
	}
	return s.putBlob(ctx, keyCollections, data)
}

// Snapshot serializes every persisted blob into a single JSON document keyed
// by blob name, for backup upload.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM workspace_state ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("read workspace state: %w", err)
	}
	defer rows.Close()

	blobs := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan workspace state: %w", err)
		}
		if json.Valid(value) {
			blobs[key] = json.RawMessage(value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace state: %w", err)
	}

	return json.MarshalIndent(blobs, "", "  ")
}
