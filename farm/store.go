/*
store.go - State container and persistence boundary

PURPOSE:
  Store owns the live aggregate and is the only entry point for
  mutations. Dispatch runs the transition function to completion
  before the next action is processed — the engine itself assumes a
  single logical writer, so the container serializes callers with a
  mutex rather than pushing locking into the pure core.

PERSISTENCE:
  After each successful transition the new aggregate is written to the
  SnapshotStore as one JSON blob under one key. Persistence is
  best-effort durability: a save failure is logged and never rolls
  back or blocks the in-memory change. The in-memory aggregate is the
  source of truth for the session.

LOAD FALLBACK:
  A missing snapshot (first run) or an unparseable one falls back to
  the built-in default aggregate. No partial recovery is attempted.

SEE ALSO:
  - engine.go: Reduce
  - store/memory.go, store/sqlite: SnapshotStore implementations
*/
package farm

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// SnapshotStore persists the aggregate as a single blob under one key.
type SnapshotStore interface {
	// Load returns the stored aggregate. ok is false when nothing has
	// been stored yet. A syntactically broken blob returns an error.
	Load(ctx context.Context) (state AppState, ok bool, err error)

	// Save overwrites the stored aggregate.
	Save(ctx context.Context, state AppState) error
}

// Store holds the live aggregate behind a narrow dispatch interface.
type Store struct {
	mu        sync.Mutex
	state     AppState
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewStore loads the aggregate from snapshots (or falls back to the
// default) and returns a ready container. snapshots may be nil for a
// purely in-memory session.
func NewStore(ctx context.Context, snapshots SnapshotStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	state := DefaultState()
	if snapshots != nil {
		loaded, ok, err := snapshots.Load(ctx)
		switch {
		case err != nil:
			logger.Warn("snapshot unreadable, using default state", zap.Error(err))
		case ok:
			state = loaded
		default:
			logger.Info("no snapshot found, using default state")
		}
	}

	return &Store{state: state, snapshots: snapshots, logger: logger}
}

// State returns a copy of the current aggregate.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch runs one action through the transition function and
// returns the resulting aggregate.
//
// A not-found edit or delete leaves the state unchanged and returns
// the unchanged aggregate together with an error wrapping ErrNotFound.
// Any other action always succeeds.
//
// Saves happen under the lock so snapshots land in dispatch order, but
// their errors are only logged — persistence never fails a dispatch.
func (s *Store) Dispatch(ctx context.Context, action Action) (AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, action)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("dispatch hit missing id",
				zap.String("action", ActionName(action)),
				zap.Error(err))
		}
		return s.state.Clone(), err
	}

	s.state = next
	s.persist(ctx)
	return s.state.Clone(), nil
}

func (s *Store) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.state); err != nil {
		s.logger.Error("snapshot save failed, in-memory state unaffected", zap.Error(err))
	}
}
