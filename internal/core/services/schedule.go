package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// Ensure ScheduleManager implements the interface.
var _ driving.ScheduleService = (*ScheduleManager)(nil)

// maxAppendAttempts bounds retries when another writer extends the schedule
// between reading its bounds and appending a cycle.
const maxAppendAttempts = 5

// ScheduleManager owns the date to answer assignment.
//
// The schedule is a sequence of cycles, each a random permutation of the
// corpus ids laid out on consecutive days from the epoch. It is created once
// and afterwards only extended by whole cycles.
type ScheduleManager struct {
	store driven.ScheduleStore
	epoch domain.Date

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduleManager creates a schedule manager starting at epoch.
// A nil rng is replaced with a randomly seeded source.
func NewScheduleManager(store driven.ScheduleStore, epoch domain.Date, rng *rand.Rand) *ScheduleManager {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ScheduleManager{
		store: store,
		epoch: epoch,
		rng:   rng,
	}
}

// Ensure creates the first cycle of the schedule if none exists.
// Returns true if this call created it.
func (m *ScheduleManager) Ensure(ctx context.Context, corpus *domain.Corpus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bounds, err := m.store.Bounds(ctx)
	if err != nil {
		return false, fmt.Errorf("reading schedule bounds: %w", err)
	}
	if bounds.Count > 0 {
		return false, nil
	}

	entries := m.cycle(corpus, m.epoch, 0, false)
	created, err := m.store.CreateIfAbsent(ctx, entries)
	if err != nil {
		return false, fmt.Errorf("creating schedule: %w", err)
	}
	if created {
		logger.Info("schedule created: %d days from %s", len(entries), m.epoch)
	}
	return created, nil
}

// EnsureCovers appends whole cycles until the schedule reaches through.
// Returns the number of cycles appended by this call.
func (m *ScheduleManager) EnsureCovers(ctx context.Context, corpus *domain.Corpus, through domain.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	appended := 0
	conflicts := 0
	for {
		bounds, err := m.store.Bounds(ctx)
		if err != nil {
			return appended, fmt.Errorf("reading schedule bounds: %w", err)
		}
		if bounds.Count == 0 {
			return appended, fmt.Errorf("%w: schedule has not been created", domain.ErrScheduleExhausted)
		}
		if !through.After(bounds.Last) {
			return appended, nil
		}

		lastID, err := m.store.Get(ctx, bounds.Last)
		if err != nil {
			return appended, fmt.Errorf("reading last scheduled answer: %w", err)
		}

		entries := m.cycle(corpus, bounds.Last.AddDays(1), lastID, true)
		ok, err := m.store.Append(ctx, bounds.Last, entries)
		if err != nil {
			return appended, fmt.Errorf("appending schedule cycle: %w", err)
		}
		if !ok {
			conflicts++
			if conflicts >= maxAppendAttempts {
				return appended, fmt.Errorf("appending schedule cycle: lost %d races", conflicts)
			}
			logger.Debug("schedule append after %s lost a race, retrying", bounds.Last)
			continue
		}

		appended++
		logger.Info("schedule extended: %d days after %s", len(entries), bounds.Last)
	}
}

// Resolve returns the answer id scheduled for date.
func (m *ScheduleManager) Resolve(ctx context.Context, date domain.Date) (int64, error) {
	id, err := m.store.Get(ctx, date)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("%w: no answer scheduled for %s", domain.ErrScheduleExhausted, date)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", date, err)
	}
	return id, nil
}

// List returns the whole schedule ordered by date.
func (m *ScheduleManager) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	entries, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}
	return entries, nil
}

// cycle lays a fresh permutation of the corpus ids on consecutive days from
// start. When avoidFirst is set, the cycle never opens with avoid, so the
// answer never repeats across a cycle boundary. Must be called with mu held.
func (m *ScheduleManager) cycle(corpus *domain.Corpus, start domain.Date, avoid int64, avoidFirst bool) []domain.ScheduleEntry {
	ids := corpus.IDs()
	for j := len(ids) - 1; j > 0; j-- {
		k := m.rng.IntN(j + 1)
		ids[j], ids[k] = ids[k], ids[j]
	}
	if avoidFirst && len(ids) > 1 && ids[0] == avoid {
		ids[0], ids[1] = ids[1], ids[0]
	}

	entries := make([]domain.ScheduleEntry, len(ids))
	for i, id := range ids {
		entries[i] = domain.ScheduleEntry{Date: start.AddDays(i), AnswerID: id}
	}
	return entries
}
