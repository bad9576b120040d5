package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailyrank/internal/adapters/driven/clock"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// staticCorpus implements driven.CorpusSource for testing.
type staticCorpus struct {
	corpus *domain.Corpus
	err    error
}

func (s *staticCorpus) Load(context.Context) (*domain.Corpus, error) {
	return s.corpus, s.err
}

var _ driven.CorpusSource = (*staticCorpus)(nil)

// flakySnapshotStore fails writes for chosen dates and pruning on demand.
type flakySnapshotStore struct {
	*memory.SnapshotStore
	failWrite map[domain.Date]bool
	pruneErr  error
}

func (s *flakySnapshotStore) Write(ctx context.Context, snap *domain.DailySnapshot) error {
	if s.failWrite[snap.Date] {
		return errors.New("write refused")
	}
	return s.SnapshotStore.Write(ctx, snap)
}

func (s *flakySnapshotStore) Prune(ctx context.Context, olderThan domain.Date) (int, error) {
	if s.pruneErr != nil {
		return 0, s.pruneErr
	}
	return s.SnapshotStore.Prune(ctx, olderThan)
}

type regenFixture struct {
	source    *staticCorpus
	schedule  *memory.ScheduleStore
	snapshots *flakySnapshotStore
	cache     *memory.SnapshotCache
	clock     *clock.Fixed
	job       *RegenerationJob
}

func newRegenFixture(t *testing.T) *regenFixture {
	t.Helper()
	f := &regenFixture{
		source:    &staticCorpus{corpus: abcCorpus(t)},
		schedule:  memory.NewScheduleStore(),
		snapshots: &flakySnapshotStore{SnapshotStore: memory.NewSnapshotStore(), failWrite: map[domain.Date]bool{}},
		clock:     clock.NewFixed(noonKST),
	}
	f.cache = memory.NewSnapshotCache(time.Hour, f.clock)
	settings := domain.DefaultAppSettings()
	manager := NewScheduleManager(f.schedule, settings.Game.EpochStart, seededRand(42))
	f.job = NewRegenerationJob(f.source, manager, NewRanker(), f.snapshots, f.cache, f.clock, settings.Game)
	return f
}

func TestRegenerationJob_FirstRun(t *testing.T) {
	f := newRegenFixture(t)
	ctx := context.Background()

	report, err := f.job.Regenerate(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.True(t, report.ScheduleCreated)
	assert.Equal(t, 0, report.CyclesAppended)
	require.Len(t, report.Dates, 3)
	assert.Equal(t, 3, report.Count(domain.DateStatusWritten))
	assert.False(t, report.Failed())

	for i, outcome := range report.Dates {
		date := domain.MustParseDate("2025-10-10").AddDays(i)
		assert.Equal(t, date, outcome.Date)

		answerID, err := f.schedule.Get(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, answerID, outcome.AnswerID)
		assert.Equal(t, domain.Version(date, answerID), outcome.Version)

		snap, err := f.snapshots.Read(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, outcome.Version, snap.Version)
		assert.Equal(t, answerID, snap.AnswerID)
		require.Len(t, snap.Ranking, 3)
		assert.Equal(t, answerID, snap.Ranking[0].ID)
		assert.Equal(t, 1.0, snap.Ranking[0].Score)
		assert.Equal(t, noonKST, snap.CreatedAt)
	}
}

func TestRegenerationJob_SecondRunIsUnchanged(t *testing.T) {
	f := newRegenFixture(t)
	ctx := context.Background()

	_, err := f.job.Regenerate(ctx)
	require.NoError(t, err)

	report, err := f.job.Regenerate(ctx)
	require.NoError(t, err)
	assert.False(t, report.ScheduleCreated)
	assert.Equal(t, 3, report.Count(domain.DateStatusUnchanged))
	assert.Equal(t, 0, report.Count(domain.DateStatusWritten))
}

func TestRegenerationJob_RunIDsDiffer(t *testing.T) {
	f := newRegenFixture(t)

	first, err := f.job.Regenerate(context.Background())
	require.NoError(t, err)
	second, err := f.job.Regenerate(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRegenerationJob_InvalidatesCache(t *testing.T) {
	f := newRegenFixture(t)
	today := domain.MustParseDate("2025-10-10")
	f.cache.Put(&domain.DailySnapshot{Date: today, Version: "stale"})

	_, err := f.job.Regenerate(context.Background())
	require.NoError(t, err)

	_, ok := f.cache.Get(today)
	assert.False(t, ok)
}

func TestRegenerationJob_PrunesFourDaysAgo(t *testing.T) {
	f := newRegenFixture(t)
	ctx := context.Background()
	for _, d := range []string{"2025-10-05", "2025-10-06", "2025-10-07", "2025-10-08", "2025-10-09"} {
		require.NoError(t, f.snapshots.Write(ctx, &domain.DailySnapshot{Date: domain.MustParseDate(d)}))
	}

	report, err := f.job.Regenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pruned)
	assert.Empty(t, report.PruneError)

	_, err = f.snapshots.Read(ctx, domain.MustParseDate("2025-10-06"))
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	for _, d := range []string{"2025-10-07", "2025-10-08", "2025-10-09"} {
		_, err = f.snapshots.Read(ctx, domain.MustParseDate(d))
		assert.NoError(t, err, d)
	}
}

func TestRegenerationJob_PruneErrorIsNotFatal(t *testing.T) {
	f := newRegenFixture(t)
	f.snapshots.pruneErr = errors.New("scan failed")

	report, err := f.job.Regenerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan failed", report.PruneError)
	assert.Equal(t, 3, report.Count(domain.DateStatusWritten))
}

func TestRegenerationJob_PartialFailureIsolation(t *testing.T) {
	f := newRegenFixture(t)
	tomorrow := domain.MustParseDate("2025-10-11")
	f.snapshots.failWrite[tomorrow] = true

	report, err := f.job.Regenerate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Dates, 3)

	assert.Equal(t, domain.DateStatusWritten, report.Dates[0].Status)
	assert.Equal(t, domain.DateStatusFailed, report.Dates[1].Status)
	assert.Contains(t, report.Dates[1].Error, "write refused")
	assert.Equal(t, domain.DateStatusWritten, report.Dates[2].Status)
	assert.True(t, report.Failed())
}

func TestRegenerationJob_CorpusErrorAborts(t *testing.T) {
	f := newRegenFixture(t)
	f.source.corpus = nil
	f.source.err = domain.ErrInvalidCorpus

	report, err := f.job.Regenerate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidCorpus)
	require.NotNil(t, report)
	assert.Empty(t, report.Dates)

	bounds, err := f.schedule.Bounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, bounds.Count)
}

func TestRegenerationJob_ExtendsScheduleAcrossCycle(t *testing.T) {
	f := newRegenFixture(t)
	ctx := context.Background()
	_, err := f.job.Regenerate(ctx)
	require.NoError(t, err)

	// Two days later the window reaches past the three-day first cycle.
	f.clock.Advance(48 * time.Hour)
	report, err := f.job.Regenerate(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.CyclesAppended)
	assert.False(t, report.Failed())
	assert.Equal(t, "2025-10-12", report.Dates[0].Date.String())
	assert.Equal(t, domain.DateStatusUnchanged, report.Dates[0].Status)
	assert.Equal(t, domain.DateStatusWritten, report.Dates[1].Status)
	assert.Equal(t, domain.DateStatusWritten, report.Dates[2].Status)
}

func TestRegenerationJob_AnswerMissingFromCorpus(t *testing.T) {
	f := newRegenFixture(t)
	ctx := context.Background()
	_, err := f.job.Regenerate(ctx)
	require.NoError(t, err)

	// Entity 3 disappears from the corpus after the schedule was built.
	shrunk, err := domain.NewCorpus([]domain.Entity{
		{ID: 1, Name: "A", Vector: []float64{1, 0}},
		{ID: 2, Name: "B", Vector: []float64{0, 1}},
	})
	require.NoError(t, err)
	f.source.corpus = shrunk
	// Drop the stored snapshots so every date is recomputed.
	_, err = f.snapshots.Prune(ctx, domain.MustParseDate("2025-10-13"))
	require.NoError(t, err)

	report, err := f.job.Regenerate(ctx)
	require.NoError(t, err)
	require.Len(t, report.Dates, 3)
	failed := 0
	for _, outcome := range report.Dates {
		if outcome.AnswerID == 3 {
			assert.Equal(t, domain.DateStatusFailed, outcome.Status)
			assert.Contains(t, outcome.Error, domain.ErrComputation.Error())
			failed++
		} else {
			assert.Equal(t, domain.DateStatusWritten, outcome.Status)
		}
	}
	assert.Equal(t, 1, failed)
}
