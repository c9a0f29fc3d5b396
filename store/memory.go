// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/greenacre/farmbook/farm"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the snapshot as a JSON blob in memory, so it exercises
// the same codec path as the durable stores.
type Memory struct {
	mu   sync.RWMutex
	blob []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

// Seed pre-loads a raw blob, including deliberately broken ones for
// fallback tests.
func (m *Memory) Seed(blob []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
}

func (m *Memory) Load(_ context.Context) (farm.AppState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.blob == nil {
		return farm.AppState{}, false, nil
	}
	var state farm.AppState
	if err := json.Unmarshal(m.blob, &state); err != nil {
		return farm.AppState{}, false, err
	}
	return state, true, nil
}

func (m *Memory) Save(_ context.Context, state farm.AppState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	return nil
}
