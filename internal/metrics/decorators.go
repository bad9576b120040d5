package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
)

// gameService counts guess outcomes around a driving.GameService.
type gameService struct {
	driving.GameService
	m *Metrics
}

// InstrumentGame wraps a game service so every SubmitGuess is counted.
func InstrumentGame(next driving.GameService, m *Metrics) driving.GameService {
	return &gameService{GameService: next, m: m}
}

func (g *gameService) SubmitGuess(ctx context.Context, guess domain.Guess) (*domain.GuessResult, error) {
	result, err := g.GameService.SubmitGuess(ctx, guess)
	g.m.RecordGuess(GuessOutcome(result, err))
	return result, err
}

// GuessOutcome classifies a SubmitGuess result into an outcome label.
func GuessOutcome(result *domain.GuessResult, err error) string {
	switch {
	case err == nil && result != nil && result.IsCorrect:
		return GuessCorrect
	case err == nil:
		return GuessIncorrect
	case errors.Is(err, domain.ErrUnknownEntity):
		return GuessUnknown
	case errors.Is(err, domain.ErrStaleVersion):
		return GuessStale
	case errors.Is(err, domain.ErrInvalidInput):
		return GuessInvalid
	default:
		return GuessError
	}
}

// regenerator times and counts runs around a driving.Regenerator.
type regenerator struct {
	next driving.Regenerator
	m    *Metrics
}

// InstrumentRegenerator wraps a regenerator so every run is recorded.
func InstrumentRegenerator(next driving.Regenerator, m *Metrics) driving.Regenerator {
	return &regenerator{next: next, m: m}
}

func (r *regenerator) Regenerate(ctx context.Context) (*domain.RegenerationReport, error) {
	start := time.Now()
	report, err := r.next.Regenerate(ctx)
	r.m.RecordRegeneration(report, err, time.Since(start))
	return report, err
}

// snapshotCache counts hits and misses around a driven.SnapshotCache.
type snapshotCache struct {
	driven.SnapshotCache
	m *Metrics
}

// InstrumentCache wraps a snapshot cache so every Get is counted.
func InstrumentCache(next driven.SnapshotCache, m *Metrics) driven.SnapshotCache {
	return &snapshotCache{SnapshotCache: next, m: m}
}

func (c *snapshotCache) Get(date domain.Date) (*domain.DailySnapshot, bool) {
	snap, ok := c.SnapshotCache.Get(date)
	c.m.RecordCacheLookup(ok)
	return snap, ok
}
