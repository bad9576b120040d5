package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[domain.Date]*domain.DailySnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[domain.Date]*domain.DailySnapshot),
	}
}

// Write stores a copy of the snapshot under its date.
func (s *SnapshotStore) Write(_ context.Context, snapshot *domain.DailySnapshot) error {
	if snapshot == nil || snapshot.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	stored := clone(snapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Date] = stored
	return nil
}

// Read returns a copy of the snapshot for a date.
func (s *SnapshotStore) Read(_ context.Context, date domain.Date) (*domain.DailySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[date]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return clone(snap), nil
}

// Version returns the stored version token for a date.
func (s *SnapshotStore) Version(_ context.Context, date domain.Date) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[date]
	if !ok {
		return "", domain.ErrSnapshotNotFound
	}
	return snap.Version, nil
}

// Prune deletes snapshots dated before olderThan.
func (s *SnapshotStore) Prune(_ context.Context, olderThan domain.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for date := range s.snapshots {
		if date.Before(olderThan) {
			delete(s.snapshots, date)
			n++
		}
	}
	return n, nil
}

// Dates returns the stored dates in no particular order.
func (s *SnapshotStore) Dates() []domain.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]domain.Date, 0, len(s.snapshots))
	for d := range s.snapshots {
		dates = append(dates, d)
	}
	return dates
}

func clone(snap *domain.DailySnapshot) *domain.DailySnapshot {
	c := *snap
	c.Ranking = make([]domain.RankEntry, len(snap.Ranking))
	copy(c.Ranking, snap.Ranking)
	return &c
}
