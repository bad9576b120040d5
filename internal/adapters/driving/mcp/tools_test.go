package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

func TestServer_handleToday(t *testing.T) {
	ctx := context.Background()

	t.Run("returns today's identity", func(t *testing.T) {
		server := newTestServer(&mockGameService{today: &domain.TodayInfo{
			Date:     domain.MustParseDate("2025-10-10"),
			AnswerID: 1,
			Version:  "1760054400000-1",
		}})

		_, out, err := server.handleToday(ctx, nil, TodayInput{})
		require.NoError(t, err)
		assert.Equal(t, TodayOutput{Date: "2025-10-10", AnswerID: 1, Version: "1760054400000-1"}, out)
	})

	t.Run("not generated", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: domain.ErrSnapshotNotFound})

		_, _, err := server.handleToday(ctx, nil, TodayInput{})
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})
}

func TestServer_handleGuess(t *testing.T) {
	ctx := context.Background()
	input := GuessInput{Guess: "A", AnswerID: 1, Version: "1760054400000-1"}

	t.Run("correct guess includes content", func(t *testing.T) {
		game := &mockGameService{guess: &domain.GuessResult{
			Name: "A", Score: 1, Rank: 1, Total: 3, IsCorrect: true, Content: "content of A",
		}}
		server := newTestServer(game)

		_, out, err := server.handleGuess(ctx, nil, input)
		require.NoError(t, err)
		assert.True(t, out.Known)
		assert.True(t, out.IsCorrect)
		assert.Equal(t, "content of A", out.Content)
		assert.Equal(t, domain.Guess{Name: "A", AnswerID: 1, Version: "1760054400000-1"}, game.lastGuess)
	})

	t.Run("unknown name is not a tool error", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: domain.ErrUnknownEntity})

		_, out, err := server.handleGuess(ctx, nil, GuessInput{Guess: "Z"})
		require.NoError(t, err)
		assert.False(t, out.Known)
		assert.Equal(t, "Z", out.Name)
		assert.Empty(t, out.Content)
	})

	t.Run("stale version asks for refresh", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: domain.ErrStaleVersion})

		_, _, err := server.handleGuess(ctx, nil, input)
		assert.ErrorIs(t, err, domain.ErrStaleVersion)
		assert.Contains(t, err.Error(), "today tool")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: errors.New("store down")})

		_, _, err := server.handleGuess(ctx, nil, input)
		assert.EqualError(t, err, "store down")
	})
}

func TestServer_handleRanking(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to today", func(t *testing.T) {
		game := &mockGameService{ranking: abcRanking("2025-10-10")}
		server := newTestServer(game)

		_, out, err := server.handleRanking(ctx, nil, RankingInput{})
		require.NoError(t, err)
		assert.Nil(t, game.lastDate)
		assert.Equal(t, "A", out.AnswerName)
		assert.Equal(t, 3, out.Total)
		assert.Len(t, out.Ranking, 3)
	})

	t.Run("limit and date", func(t *testing.T) {
		game := &mockGameService{ranking: abcRanking("2025-10-09")}
		server := newTestServer(game)

		_, out, err := server.handleRanking(ctx, nil, RankingInput{Date: "2025-10-09", Limit: 2})
		require.NoError(t, err)
		require.NotNil(t, game.lastDate)
		assert.Equal(t, "2025-10-09", game.lastDate.String())
		assert.Equal(t, "2025-10-09", out.Date)
		assert.Equal(t, 3, out.Total)
		assert.Len(t, out.Ranking, 2)
	})

	t.Run("bad date", func(t *testing.T) {
		server := newTestServer(&mockGameService{})

		_, _, err := server.handleRanking(ctx, nil, RankingInput{Date: "yesterday"})
		assert.Error(t, err)
	})

	t.Run("future date", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: domain.ErrFutureDate})

		_, out, err := server.handleRanking(ctx, nil, RankingInput{Date: "2099-01-01"})
		assert.ErrorIs(t, err, domain.ErrFutureDate)
		assert.Empty(t, out.Ranking)
	})
}

func TestServer_handleYesterday(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		server := newTestServer(&mockGameService{reveal: &domain.Reveal{
			Date: domain.MustParseDate("2025-10-09"), AnswerName: "B",
		}})

		_, out, err := server.handleYesterday(ctx, nil, YesterdayInput{})
		require.NoError(t, err)
		assert.Equal(t, YesterdayOutput{Available: true, Date: "2025-10-09", AnswerName: "B"}, out)
	})

	t.Run("not available", func(t *testing.T) {
		server := newTestServer(&mockGameService{})

		_, out, err := server.handleYesterday(ctx, nil, YesterdayInput{})
		require.NoError(t, err)
		assert.False(t, out.Available)
	})
}
