package driven

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// SnapshotStore persists one ranking snapshot per date.
type SnapshotStore interface {
	// Write stores the snapshot under its date, replacing any previous one.
	// Readers observe either the old record or the new one, never a mix.
	Write(ctx context.Context, snapshot *domain.DailySnapshot) error

	// Read returns the snapshot for a date.
	// Returns domain.ErrSnapshotNotFound if none exists.
	Read(ctx context.Context, date domain.Date) (*domain.DailySnapshot, error)

	// Version returns only the stored version token for a date.
	// Returns domain.ErrSnapshotNotFound if none exists.
	Version(ctx context.Context, date domain.Date) (string, error)

	// Prune deletes snapshots for dates strictly before olderThan.
	// Returns the number of snapshots removed.
	Prune(ctx context.Context, olderThan domain.Date) (int, error)
}

// SnapshotCache holds recently read snapshots keyed by date.
type SnapshotCache interface {
	// Get returns a cached snapshot if one is present and still fresh.
	Get(date domain.Date) (*domain.DailySnapshot, bool)

	// Put caches a snapshot under its date.
	Put(snapshot *domain.DailySnapshot)

	// Invalidate drops any entry for the date.
	Invalidate(date domain.Date)
}
