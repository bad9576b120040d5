package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// Ensure RegenerationJob implements the interface.
var _ driving.Regenerator = (*RegenerationJob)(nil)

// RegenerationJob writes the snapshots for the lookahead window and prunes
// expired ones. Runs may overlap: schedule creation is atomic in the store
// and each snapshot write replaces a whole record.
type RegenerationJob struct {
	corpus    driven.CorpusSource
	schedule  *ScheduleManager
	ranker    *Ranker
	snapshots driven.SnapshotStore
	cache     driven.SnapshotCache
	clock     driven.Clock
	game      domain.GameSettings
}

// NewRegenerationJob creates a regeneration job. cache may be nil.
func NewRegenerationJob(
	corpus driven.CorpusSource,
	schedule *ScheduleManager,
	ranker *Ranker,
	snapshots driven.SnapshotStore,
	cache driven.SnapshotCache,
	clock driven.Clock,
	game domain.GameSettings,
) *RegenerationJob {
	return &RegenerationJob{
		corpus:    corpus,
		schedule:  schedule,
		ranker:    ranker,
		snapshots: snapshots,
		cache:     cache,
		clock:     clock,
		game:      game,
	}
}

// Regenerate runs the job once.
//
// A corpus or schedule failure aborts the run and is returned together with
// the partial report. Failures for individual dates and pruning failures are
// recorded in the report only.
func (j *RegenerationJob) Regenerate(ctx context.Context) (*domain.RegenerationReport, error) {
	report := &domain.RegenerationReport{
		RunID:     uuid.NewString(),
		StartedAt: j.clock.Now(),
	}
	log := logger.With("regeneration").With().Str("run_id", report.RunID).Logger()
	defer func() { report.EndedAt = j.clock.Now() }()

	corpus, err := j.corpus.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("loading corpus failed")
		return report, fmt.Errorf("loading corpus: %w", err)
	}

	today := j.game.Today(report.StartedAt)
	last := today.AddDays(j.game.LookaheadDays - 1)

	report.ScheduleCreated, err = j.schedule.Ensure(ctx, corpus)
	if err != nil {
		log.Error().Err(err).Msg("ensuring schedule failed")
		return report, err
	}
	report.CyclesAppended, err = j.schedule.EnsureCovers(ctx, corpus, last)
	if err != nil {
		log.Error().Err(err).Msg("extending schedule failed")
		return report, err
	}

	for d := today; !d.After(last); d = d.AddDays(1) {
		outcome := j.regenerateDate(ctx, corpus, d)
		report.Dates = append(report.Dates, outcome)

		event := log.Info()
		if outcome.Status == domain.DateStatusFailed {
			event = log.Error().Str("error", outcome.Error)
		}
		event.Str("date", d.String()).Str("status", string(outcome.Status)).Str("version", outcome.Version).Msg("date processed")
	}

	cutoff := today.AddDays(-j.game.RetentionDays)
	report.Pruned, err = j.snapshots.Prune(ctx, cutoff)
	if err != nil {
		report.PruneError = err.Error()
		log.Warn().Err(err).Str("cutoff", cutoff.String()).Msg("pruning snapshots failed")
	}

	log.Info().
		Int("written", report.Count(domain.DateStatusWritten)).
		Int("unchanged", report.Count(domain.DateStatusUnchanged)).
		Int("failed", report.Count(domain.DateStatusFailed)).
		Int("pruned", report.Pruned).
		Msg("regeneration finished")
	return report, nil
}

func (j *RegenerationJob) regenerateDate(ctx context.Context, corpus *domain.Corpus, date domain.Date) domain.DateOutcome {
	outcome := domain.DateOutcome{Date: date}
	fail := func(err error) domain.DateOutcome {
		outcome.Status = domain.DateStatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	answerID, err := j.schedule.Resolve(ctx, date)
	if err != nil {
		return fail(err)
	}
	outcome.AnswerID = answerID
	outcome.Version = domain.Version(date, answerID)

	stored, err := j.snapshots.Version(ctx, date)
	switch {
	case err == nil && stored == outcome.Version:
		outcome.Status = domain.DateStatusUnchanged
		return outcome
	case err != nil && !errors.Is(err, domain.ErrSnapshotNotFound):
		// Rewriting is always safe, so a failed version read does not stop the date.
		logger.Warn("reading stored version for %s: %v", date, err)
	}

	answer, ok := corpus.Get(answerID)
	if !ok {
		return fail(fmt.Errorf("%w: scheduled answer %d is not in the corpus", domain.ErrComputation, answerID))
	}
	ranking, err := j.ranker.Rank(corpus, answer)
	if err != nil {
		return fail(err)
	}

	snap := &domain.DailySnapshot{
		Version:       outcome.Version,
		Date:          date,
		AnswerID:      answer.ID,
		AnswerName:    answer.Name,
		AnswerContent: answer.Content,
		Ranking:       ranking,
		CreatedAt:     j.clock.Now(),
	}
	if err := j.snapshots.Write(ctx, snap); err != nil {
		return fail(fmt.Errorf("writing snapshot: %w", err))
	}
	if j.cache != nil {
		j.cache.Invalidate(date)
	}

	outcome.Status = domain.DateStatusWritten
	return outcome
}
