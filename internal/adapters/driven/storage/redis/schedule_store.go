package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

type scheduleStore struct {
	client goredis.UniversalClient
}

var _ driven.ScheduleStore = (*scheduleStore)(nil)

// CreateIfAbsent writes the hash only if it does not exist yet.
// A transaction aborted by a concurrent writer counts as losing the race.
func (s *scheduleStore) CreateIfAbsent(ctx context.Context, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}

	created := false
	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		n, err := tx.Exists(ctx, ScheduleKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, ScheduleKey, hashFields(entries)...)
			return nil
		})
		if err == nil {
			created = true
		}
		return err
	}, ScheduleKey)

	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating schedule: %w", err)
	}
	return created, nil
}

// Append adds entries if the latest scheduled date still equals after.
func (s *scheduleStore) Append(ctx context.Context, after domain.Date, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}

	appended := false
	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		dates, err := tx.HKeys(ctx, ScheduleKey).Result()
		if err != nil {
			return err
		}
		if len(dates) == 0 || slices.Max(dates) != after.String() {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, ScheduleKey, hashFields(entries)...)
			return nil
		})
		if err == nil {
			appended = true
		}
		return err
	}, ScheduleKey)

	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("appending schedule: %w", err)
	}
	return appended, nil
}

func hashFields(entries []domain.ScheduleEntry) []any {
	fields := make([]any, 0, len(entries)*2)
	for _, e := range entries {
		fields = append(fields, e.Date.String(), e.AnswerID)
	}
	return fields
}

// Get returns the answer id for a date.
func (s *scheduleStore) Get(ctx context.Context, date domain.Date) (int64, error) {
	id, err := s.client.HGet(ctx, ScheduleKey, date.String()).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("reading schedule for %s: %w", date, err)
	}
	return id, nil
}

// List returns all entries ordered by date.
func (s *scheduleStore) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	raw, err := s.client.HGetAll(ctx, ScheduleKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	entries := make([]domain.ScheduleEntry, 0, len(raw))
	for field, value := range raw {
		date, err := domain.ParseDate(field)
		if err != nil {
			return nil, fmt.Errorf("parsing schedule date %q: %w", field, err)
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing answer id for %s: %w", field, err)
		}
		entries = append(entries, domain.ScheduleEntry{Date: date, AnswerID: id})
	}
	slices.SortFunc(entries, func(a, b domain.ScheduleEntry) int {
		return a.Date.DaysSince(b.Date)
	})
	return entries, nil
}

// Bounds returns the first and last scheduled dates.
func (s *scheduleStore) Bounds(ctx context.Context) (domain.ScheduleBounds, error) {
	dates, err := s.client.HKeys(ctx, ScheduleKey).Result()
	if err != nil {
		return domain.ScheduleBounds{}, fmt.Errorf("reading schedule dates: %w", err)
	}
	if len(dates) == 0 {
		return domain.ScheduleBounds{}, nil
	}

	// YYYY-MM-DD sorts lexically in date order.
	bounds := domain.ScheduleBounds{Count: len(dates)}
	if bounds.First, err = domain.ParseDate(slices.Min(dates)); err != nil {
		return domain.ScheduleBounds{}, err
	}
	if bounds.Last, err = domain.ParseDate(slices.Max(dates)); err != nil {
		return domain.ScheduleBounds{}, err
	}
	return bounds, nil
}
