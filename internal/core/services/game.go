package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// Ensure GameService implements the interface.
var _ driving.GameService = (*GameService)(nil)

// GameService answers player requests from stored snapshots.
// It never computes rankings; a day without a snapshot is simply not playable.
type GameService struct {
	snapshots driven.SnapshotStore
	cache     driven.SnapshotCache
	clock     driven.Clock
	game      domain.GameSettings
}

// NewGameService creates a game service. cache may be nil.
func NewGameService(
	snapshots driven.SnapshotStore,
	cache driven.SnapshotCache,
	clock driven.Clock,
	game domain.GameSettings,
) *GameService {
	return &GameService{
		snapshots: snapshots,
		cache:     cache,
		clock:     clock,
		game:      game,
	}
}

// Today returns the identity of today's game.
func (s *GameService) Today(ctx context.Context) (*domain.TodayInfo, error) {
	snap, err := s.todaySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.TodayInfo{
		Date:     snap.Date,
		AnswerID: snap.AnswerID,
		Version:  snap.Version,
	}, nil
}

// SubmitGuess scores a guess against today's snapshot.
// A client holding another day's answer id or version gets ErrStaleVersion
// and must refresh before guessing again.
func (s *GameService) SubmitGuess(ctx context.Context, guess domain.Guess) (*domain.GuessResult, error) {
	if guess.Name == "" {
		return nil, fmt.Errorf("%w: guess is empty", domain.ErrInvalidInput)
	}

	snap, err := s.todaySnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if guess.Version != snap.Version || guess.AnswerID != snap.AnswerID {
		return nil, fmt.Errorf("%w: client has %q, current is %q", domain.ErrStaleVersion, guess.Version, snap.Version)
	}

	entry, ok := snap.Lookup(guess.Name)
	if !ok {
		logger.Debug("guess %q matched no entity", guess.Name)
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, guess.Name)
	}

	result := &domain.GuessResult{
		Name:      entry.Name,
		Score:     entry.Score,
		Rank:      entry.Rank,
		Total:     len(snap.Ranking),
		IsCorrect: entry.ID == snap.AnswerID,
	}
	if result.IsCorrect {
		result.Content = snap.AnswerContent
	}
	return result, nil
}

// Ranking returns the full ranking for date, or today when date is nil.
// Future dates are refused even when their snapshot already exists.
func (s *GameService) Ranking(ctx context.Context, date *domain.Date) (*domain.RankingView, error) {
	today := s.today()

	var snap *domain.DailySnapshot
	var err error
	switch {
	case date == nil || date.Equal(today):
		snap, err = s.todaySnapshot(ctx)
	case date.After(today):
		return nil, fmt.Errorf("%w: %s is after %s", domain.ErrFutureDate, date, today)
	default:
		snap, err = s.snapshots.Read(ctx, *date)
		if err != nil {
			err = fmt.Errorf("reading snapshot for %s: %w", date, err)
		}
	}
	if err != nil {
		return nil, err
	}

	return &domain.RankingView{
		Date:       snap.Date,
		AnswerName: snap.AnswerName,
		Ranking:    snap.Ranking,
	}, nil
}

// PreviousAnswer reveals yesterday's answer name.
// Returns nil and no error when yesterday has no snapshot.
func (s *GameService) PreviousAnswer(ctx context.Context) (*domain.Reveal, error) {
	yesterday := s.today().AddDays(-1)

	snap, err := s.snapshots.Read(ctx, yesterday)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot for %s: %w", yesterday, err)
	}

	return &domain.Reveal{
		Date:       snap.Date,
		AnswerName: snap.AnswerName,
	}, nil
}

// Names returns every entity name in today's game in alphabetical order.
func (s *GameService) Names(ctx context.Context) ([]string, error) {
	snap, err := s.todaySnapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(snap.Ranking))
	for i, e := range snap.Ranking {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names, nil
}

func (s *GameService) today() domain.Date {
	return s.game.Today(s.clock.Now())
}

// todaySnapshot reads today's snapshot through the cache.
func (s *GameService) todaySnapshot(ctx context.Context) (*domain.DailySnapshot, error) {
	today := s.today()

	if s.cache != nil {
		if snap, ok := s.cache.Get(today); ok {
			return snap, nil
		}
	}

	snap, err := s.snapshots.Read(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot for %s: %w", today, err)
	}

	if s.cache != nil {
		s.cache.Put(snap)
	}
	return snap, nil
}
