package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// scanCount is the SCAN page size hint used when pruning.
const scanCount = 100

type snapshotStore struct {
	client goredis.UniversalClient
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

func snapshotKey(date domain.Date) string {
	return SnapshotKeyPrefix + date.String()
}

// Write replaces the snapshot value with a single SET.
func (s *snapshotStore) Write(ctx context.Context, snapshot *domain.DailySnapshot) error {
	if snapshot == nil || snapshot.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(snapshot.Date), payload, 0).Err(); err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", snapshot.Date, err)
	}
	return nil
}

// Read returns the snapshot for a date.
func (s *snapshotStore) Read(ctx context.Context, date domain.Date) (*domain.DailySnapshot, error) {
	payload, err := s.get(ctx, date)
	if err != nil {
		return nil, err
	}
	var snap domain.DailySnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for %s: %w", date, err)
	}
	return &snap, nil
}

// Version decodes only the version field of the stored snapshot.
func (s *snapshotStore) Version(ctx context.Context, date domain.Date) (string, error) {
	payload, err := s.get(ctx, date)
	if err != nil {
		return "", err
	}
	var head struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return "", fmt.Errorf("decoding snapshot version for %s: %w", date, err)
	}
	return head.Version, nil
}

func (s *snapshotStore) get(ctx context.Context, date domain.Date) ([]byte, error) {
	payload, err := s.client.Get(ctx, snapshotKey(date)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot for %s: %w", date, err)
	}
	return payload, nil
}

// Prune scans the snapshot keyspace and deletes keys dated before olderThan.
// Keys whose suffix is not a date are left alone.
func (s *snapshotStore) Prune(ctx context.Context, olderThan domain.Date) (int, error) {
	var expired []string
	iter := s.client.Scan(ctx, 0, SnapshotKeyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		date, err := domain.ParseDate(strings.TrimPrefix(key, SnapshotKeyPrefix))
		if err != nil {
			logger.Debug("skipping unrecognised snapshot key %q", key)
			continue
		}
		if date.Before(olderThan) {
			expired = append(expired, key)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scanning snapshot keys: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	n, err := s.client.Del(ctx, expired...).Result()
	if err != nil {
		return 0, fmt.Errorf("deleting expired snapshots: %w", err)
	}
	return int(n), nil
}
