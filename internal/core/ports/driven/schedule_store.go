package driven

import (
	"context"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// ScheduleStore persists the date to answer assignment.
//
// The schedule is written once and afterwards only grows at its end, so both
// mutating methods are atomic primitives rather than plain puts.
type ScheduleStore interface {
	// CreateIfAbsent stores entries only if no schedule exists yet.
	// Returns true if this call created the schedule. Concurrent callers
	// observe exactly one creation.
	CreateIfAbsent(ctx context.Context, entries []domain.ScheduleEntry) (bool, error)

	// Append adds entries after the current last date, but only if that last
	// date still equals after. Returns false without writing when another
	// writer extended the schedule first.
	Append(ctx context.Context, after domain.Date, entries []domain.ScheduleEntry) (bool, error)

	// Get returns the answer id for a date.
	// Returns domain.ErrNotFound if the date is not scheduled.
	Get(ctx context.Context, date domain.Date) (int64, error)

	// List returns all entries ordered by date.
	List(ctx context.Context) ([]domain.ScheduleEntry, error)

	// Bounds returns the first and last scheduled dates.
	// Returns a zero-count value when no schedule exists.
	Bounds(ctx context.Context) (domain.ScheduleBounds, error)
}
