package flowstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process setups.
// All methods are safe for concurrent use.
type MemoryStore struct {
	snapshots map[uuid.UUID]Snapshot
	mu        sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[uuid.UUID]Snapshot),
	}
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.FlowID] = snap
	return nil
}

func (s *MemoryStore) Load(_ context.Context, flowID uuid.UUID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[flowID]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, flowID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, flowID)
	return nil
}
