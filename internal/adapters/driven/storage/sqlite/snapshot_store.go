package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore.
// The full snapshot is kept as a JSON payload; version and answer_id are
// duplicated into columns so version checks skip decoding.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Write upserts the snapshot row for its date.
func (s *snapshotStore) Write(ctx context.Context, snapshot *domain.DailySnapshot) error {
	if snapshot == nil || snapshot.Date.IsZero() {
		return domain.ErrInvalidInput
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO daily_snapshots (date, version, answer_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			version = excluded.version,
			answer_id = excluded.answer_id,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, snapshot.Date.String(), snapshot.Version, snapshot.AnswerID, string(payload),
		snapshot.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", snapshot.Date, err)
	}
	return nil
}

// Read returns the snapshot for a date.
func (s *snapshotStore) Read(ctx context.Context, date domain.Date) (*domain.DailySnapshot, error) {
	var payload string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT payload FROM daily_snapshots WHERE date = ?", date.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot for %s: %w", date, err)
	}

	var snap domain.DailySnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for %s: %w", date, err)
	}
	return &snap, nil
}

// Version returns the stored version token for a date.
func (s *snapshotStore) Version(ctx context.Context, date domain.Date) (string, error) {
	var version string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT version FROM daily_snapshots WHERE date = ?", date.String()).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrSnapshotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading version for %s: %w", date, err)
	}
	return version, nil
}

// Prune deletes snapshots dated before olderThan.
func (s *snapshotStore) Prune(ctx context.Context, olderThan domain.Date) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM daily_snapshots WHERE date < ?", olderThan.String())
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned snapshots: %w", err)
	}
	return int(n), nil
}
