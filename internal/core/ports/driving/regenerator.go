package driving

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// Regenerator runs the snapshot regeneration job.
type Regenerator interface {
	// Regenerate ensures the schedule, writes snapshots for the lookahead
	// window and prunes expired ones.
	Regenerate(ctx context.Context) (*domain.RegenerationReport, error)
}

// ScheduleService exposes the answer schedule for inspection.
type ScheduleService interface {
	// List returns the whole schedule ordered by date.
	List(ctx context.Context) ([]domain.ScheduleEntry, error)

	// Resolve returns the answer id for a date.
	Resolve(ctx context.Context, date domain.Date) (int64, error)
}
