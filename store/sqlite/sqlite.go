/*
Package sqlite persists the aggregate snapshot in a SQLite database.

PURPOSE:
  The dashboard stores its whole aggregate as one JSON document under
  one key — SQLite here is a durable key-value slot, not a relational
  model. One table, one row.

USAGE:
  snapshots, err := sqlite.New("./data/farmbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer snapshots.Close()

  store := farm.NewStore(ctx, snapshots, logger)

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for an in-memory
  database.

SEE ALSO:
  - farm/store.go: SnapshotStore interface and load fallback rules
  - store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/greenacre/farmbook/farm"
)

// snapshotKey is the single storage key the aggregate lives under.
const snapshotKey = "farmbook_state"

// Store implements farm.SnapshotStore on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the
// schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the snapshot blob. ok is false when no snapshot has been
// written yet; a blob that fails to parse returns an error so the
// container can fall back to the default aggregate.
func (s *Store) Load(ctx context.Context) (farm.AppState, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ?`, snapshotKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return farm.AppState{}, false, nil
	}
	if err != nil {
		return farm.AppState{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var state farm.AppState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return farm.AppState{}, false, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return state, true, nil
}

// Save overwrites the snapshot blob.
func (s *Store) Save(ctx context.Context, state farm.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		snapshotKey, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
