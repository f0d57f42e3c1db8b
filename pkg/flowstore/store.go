package flowstore

import (
	"context"

	"github.com/google/uuid"
)

// Store persists flow snapshots keyed by flow ID. Each flow has exactly one
// snapshot; Save overwrites.
type Store interface {
	// Save creates or replaces the snapshot for its flow ID.
	Save(ctx context.Context, snap Snapshot) error

	// Load retrieves a snapshot by flow ID.
	// Returns ErrSnapshotNotFound if no snapshot exists.
	Load(ctx context.Context, flowID uuid.UUID) (Snapshot, error)

	// Delete removes the snapshot for a flow. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context, flowID uuid.UUID) error
}
