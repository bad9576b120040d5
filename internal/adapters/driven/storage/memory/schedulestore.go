package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// Ensure ScheduleStore implements the interface.
var _ driven.ScheduleStore = (*ScheduleStore)(nil)

// ScheduleStore is an in-memory implementation of driven.ScheduleStore.
type ScheduleStore struct {
	mu      sync.RWMutex
	entries []domain.ScheduleEntry
	byDate  map[domain.Date]int64
}

// NewScheduleStore creates a new in-memory schedule store.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		byDate: make(map[domain.Date]int64),
	}
}

// CreateIfAbsent stores entries only if the schedule is empty.
func (s *ScheduleStore) CreateIfAbsent(_ context.Context, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) > 0 {
		return false, nil
	}
	s.put(entries)
	return true, nil
}

// Append adds entries if the last stored date is still after.
func (s *ScheduleStore) Append(_ context.Context, after domain.Date, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 || !s.entries[len(s.entries)-1].Date.Equal(after) {
		return false, nil
	}
	s.put(entries)
	return true, nil
}

// put must be called with mu held for writing.
func (s *ScheduleStore) put(entries []domain.ScheduleEntry) {
	for _, e := range entries {
		s.entries = append(s.entries, e)
		s.byDate[e.Date] = e.AnswerID
	}
}

// Get returns the answer id for a date.
func (s *ScheduleStore) Get(_ context.Context, date domain.Date) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byDate[date]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// List returns all entries ordered by date.
func (s *ScheduleStore) List(_ context.Context) ([]domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScheduleEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Bounds returns the first and last scheduled dates.
func (s *ScheduleStore) Bounds(_ context.Context) (domain.ScheduleBounds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return domain.ScheduleBounds{}, nil
	}
	return domain.ScheduleBounds{
		First: s.entries[0].Date,
		Last:  s.entries[len(s.entries)-1].Date,
		Count: len(s.entries),
	}, nil
}
