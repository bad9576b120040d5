package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// scheduleStore implements driven.ScheduleStore.
type scheduleStore struct {
	store *Store
}

var _ driven.ScheduleStore = (*scheduleStore)(nil)

// CreateIfAbsent stores entries only if the answer_schedule table is empty.
func (s *scheduleStore) CreateIfAbsent(ctx context.Context, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}

	return s.withTx(ctx, func(tx *sql.Tx) (bool, error) {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM answer_schedule").Scan(&count); err != nil {
			return false, fmt.Errorf("counting schedule: %w", err)
		}
		if count > 0 {
			return false, nil
		}
		return true, insertEntries(ctx, tx, entries)
	})
}

// Append adds entries if the last stored date still equals after.
func (s *scheduleStore) Append(ctx context.Context, after domain.Date, entries []domain.ScheduleEntry) (bool, error) {
	if len(entries) == 0 {
		return false, domain.ErrInvalidInput
	}

	return s.withTx(ctx, func(tx *sql.Tx) (bool, error) {
		var last sql.NullString
		if err := tx.QueryRowContext(ctx, "SELECT MAX(date) FROM answer_schedule").Scan(&last); err != nil {
			return false, fmt.Errorf("reading last scheduled date: %w", err)
		}
		if !last.Valid || last.String != after.String() {
			return false, nil
		}
		return true, insertEntries(ctx, tx, entries)
	})
}

// withTx runs fn in a transaction and commits only when fn reports a write.
func (s *scheduleStore) withTx(ctx context.Context, fn func(tx *sql.Tx) (bool, error)) (bool, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	wrote, err := fn(tx)
	if err != nil || !wrote {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing schedule: %w", err)
	}
	return true, nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, entries []domain.ScheduleEntry) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO answer_schedule (date, answer_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing schedule insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Date.String(), e.AnswerID); err != nil {
			return fmt.Errorf("inserting schedule entry %s: %w", e.Date, err)
		}
	}
	return nil
}

// Get returns the answer id for a date.
func (s *scheduleStore) Get(ctx context.Context, date domain.Date) (int64, error) {
	var id int64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT answer_id FROM answer_schedule WHERE date = ?", date.String()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("reading schedule for %s: %w", date, err)
	}
	return id, nil
}

// List returns all entries ordered by date.
func (s *scheduleStore) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT date, answer_id FROM answer_schedule ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var raw string
		var e domain.ScheduleEntry
		if err := rows.Scan(&raw, &e.AnswerID); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		if e.Date, err = domain.ParseDate(raw); err != nil {
			return nil, fmt.Errorf("parsing schedule date: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule: %w", err)
	}
	return entries, nil
}

// Bounds returns the first and last scheduled dates.
func (s *scheduleStore) Bounds(ctx context.Context) (domain.ScheduleBounds, error) {
	var first, last sql.NullString
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT MIN(date), MAX(date), COUNT(*) FROM answer_schedule").Scan(&first, &last, &count)
	if err != nil {
		return domain.ScheduleBounds{}, fmt.Errorf("reading schedule bounds: %w", err)
	}
	if count == 0 {
		return domain.ScheduleBounds{}, nil
	}

	bounds := domain.ScheduleBounds{Count: count}
	if bounds.First, err = domain.ParseDate(first.String); err != nil {
		return domain.ScheduleBounds{}, fmt.Errorf("parsing first date: %w", err)
	}
	if bounds.Last, err = domain.ParseDate(last.String); err != nil {
		return domain.ScheduleBounds{}, fmt.Errorf("parsing last date: %w", err)
	}
	return bounds, nil
}
