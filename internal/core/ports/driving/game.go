package driving

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// GameService answers player requests from stored snapshots.
type GameService interface {
	// Today returns the identity of today's game.
	Today(ctx context.Context) (*domain.TodayInfo, error)

	// SubmitGuess scores a guess against today's snapshot.
	SubmitGuess(ctx context.Context, guess domain.Guess) (*domain.GuessResult, error)

	// Ranking returns the full ranking for a date, today when date is nil.
	Ranking(ctx context.Context, date *domain.Date) (*domain.RankingView, error)

	// PreviousAnswer reveals yesterday's answer name.
	// Returns nil and no error when yesterday has no snapshot.
	PreviousAnswer(ctx context.Context) (*domain.Reveal, error)

	// Names returns every entity name in today's game, sorted.
	Names(ctx context.Context) ([]string, error)
}
