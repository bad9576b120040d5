package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
)

var (
	testToday   = domain.NewDate(2025, 10, 10)
	testVersion = domain.Version(testToday, 1)
)

func testCorpus() *domain.Corpus {
	c, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "Alpha", Content: "first letter", Vector: []float64{1, 0}},
		{ID: 2, Name: "Beta", Content: "second letter", Vector: []float64{0.8, 0.6}},
		{ID: 3, Name: "Gamma", Content: "third letter", Vector: []float64{0, 1}},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func testRanking() []domain.RankEntry {
	return []domain.RankEntry{
		{ID: 1, Name: "Alpha", Score: 1, Rank: 1},
		{ID: 2, Name: "Beta", Score: 0.8, Rank: 2},
		{ID: 3, Name: "Gamma", Score: 0, Rank: 3},
	}
}

// mockGameService serves a fixed game for 2025-10-10 whose answer is Alpha.
type mockGameService struct {
	todayErr   error
	rankingErr error
	reveal     *domain.Reveal

	guesses      []domain.Guess
	rankingDates []*domain.Date
}

var _ driving.GameService = (*mockGameService)(nil)

func (m *mockGameService) Today(_ context.Context) (*domain.TodayInfo, error) {
	if m.todayErr != nil {
		return nil, m.todayErr
	}
	return &domain.TodayInfo{Date: testToday, AnswerID: 1, Version: testVersion}, nil
}

func (m *mockGameService) SubmitGuess(_ context.Context, guess domain.Guess) (*domain.GuessResult, error) {
	m.guesses = append(m.guesses, guess)
	if guess.Version != testVersion || guess.AnswerID != 1 {
		return nil, domain.ErrStaleVersion
	}
	for _, e := range testRanking() {
		if e.Name != guess.Name {
			continue
		}
		result := &domain.GuessResult{
			Name:      e.Name,
			Score:     e.Score,
			Rank:      e.Rank,
			Total:     3,
			IsCorrect: e.ID == 1,
		}
		if result.IsCorrect {
			result.Content = "first letter"
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, guess.Name)
}

func (m *mockGameService) Ranking(_ context.Context, date *domain.Date) (*domain.RankingView, error) {
	m.rankingDates = append(m.rankingDates, date)
	if m.rankingErr != nil {
		return nil, m.rankingErr
	}
	d := testToday
	if date != nil {
		d = *date
	}
	return &domain.RankingView{Date: d, AnswerName: "Alpha", Ranking: testRanking()}, nil
}

func (m *mockGameService) PreviousAnswer(_ context.Context) (*domain.Reveal, error) {
	return m.reveal, nil
}

func (m *mockGameService) Names(_ context.Context) ([]string, error) {
	return []string{"Alpha", "Beta", "Gamma"}, nil
}

type mockRegenerator struct {
	report *domain.RegenerationReport
	err    error
	calls  int
}

var _ driving.Regenerator = (*mockRegenerator)(nil)

func (m *mockRegenerator) Regenerate(_ context.Context) (*domain.RegenerationReport, error) {
	m.calls++
	return m.report, m.err
}

type mockScheduleService struct {
	entries []domain.ScheduleEntry
	err     error
}

var _ driving.ScheduleService = (*mockScheduleService)(nil)

func (m *mockScheduleService) List(_ context.Context) ([]domain.ScheduleEntry, error) {
	return m.entries, m.err
}

func (m *mockScheduleService) Resolve(_ context.Context, date domain.Date) (int64, error) {
	for _, e := range m.entries {
		if e.Date.Equal(date) {
			return e.AnswerID, nil
		}
	}
	return 0, domain.ErrScheduleExhausted
}

type mockScheduler struct {
	started chan struct{}
	stopped bool
}

var _ driving.Scheduler = (*mockScheduler)(nil)

func (m *mockScheduler) Start(ctx context.Context) error {
	if m.started != nil {
		close(m.started)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	saved       *domain.AppSettings
	validateErr error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

type stubCorpus struct {
	corpus *domain.Corpus
	err    error
}

var _ driven.CorpusSource = (*stubCorpus)(nil)

func (s *stubCorpus) Load(_ context.Context) (*domain.Corpus, error) {
	return s.corpus, s.err
}

// setupTestServices installs mocks for every service global and resets
// command flags. The returned cleanup restores the previous state.
func setupTestServices() func() {
	origSettings := settingsService
	origGame := gameService
	origRegen := regenerator
	origSchedule := scheduleService
	origScheduler := schedulerService
	origCorpus := corpusSource
	origMetrics := appMetrics
	origClose := closeServices
	origBootstrap := bootstrap

	settings := domain.DefaultAppSettings()
	settings.Server.Addr = "127.0.0.1:0"

	settingsService = &mockSettingsService{settings: settings}
	gameService = &mockGameService{}
	regenerator = &mockRegenerator{report: &domain.RegenerationReport{RunID: "run-1"}}
	scheduleService = &mockScheduleService{entries: []domain.ScheduleEntry{
		{Date: testToday, AnswerID: 1},
		{Date: testToday.AddDays(1), AnswerID: 3},
		{Date: testToday.AddDays(2), AnswerID: 2},
	}}
	schedulerService = &mockScheduler{}
	corpusSource = &stubCorpus{corpus: testCorpus()}
	appMetrics = nil
	closeServices = nil
	bootstrap = nil
	resetFlags(rootCmd)

	return func() {
		settingsService = origSettings
		gameService = origGame
		regenerator = origRegen
		scheduleService = origSchedule
		schedulerService = origScheduler
		corpusSource = origCorpus
		appMetrics = origMetrics
		closeServices = origClose
		bootstrap = origBootstrap
		resetFlags(rootCmd)
	}
}

// resetFlags puts every flag back to its default. Cobra keeps parsed
// values between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns everything
// written to stdout and stderr.
func runCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
