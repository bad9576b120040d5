package mcp

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// mockGameService is a mock implementation of driving.GameService.
type mockGameService struct {
	today     *domain.TodayInfo
	guess     *domain.GuessResult
	lastGuess domain.Guess
	ranking   *domain.RankingView
	lastDate  *domain.Date
	reveal    *domain.Reveal
	names     []string
	err       error
}

func (m *mockGameService) Today(_ context.Context) (*domain.TodayInfo, error) {
	return m.today, m.err
}

func (m *mockGameService) SubmitGuess(_ context.Context, guess domain.Guess) (*domain.GuessResult, error) {
	m.lastGuess = guess
	return m.guess, m.err
}

func (m *mockGameService) Ranking(_ context.Context, date *domain.Date) (*domain.RankingView, error) {
	m.lastDate = date
	return m.ranking, m.err
}

func (m *mockGameService) PreviousAnswer(_ context.Context) (*domain.Reveal, error) {
	return m.reveal, m.err
}

func (m *mockGameService) Names(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func newTestServer(game *mockGameService) *Server {
	s, err := NewServer(&Ports{Game: game})
	if err != nil {
		panic(err)
	}
	return s
}

func abcRanking(date string) *domain.RankingView {
	return &domain.RankingView{
		Date:       domain.MustParseDate(date),
		AnswerName: "A",
		Ranking: []domain.RankEntry{
			{ID: 1, Name: "A", Score: 1, Rank: 1},
			{ID: 3, Name: "C", Score: 0.994, Rank: 2},
			{ID: 2, Name: "B", Score: 0, Rank: 3},
		},
	}
}
