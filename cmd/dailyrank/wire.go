package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/custodia-labs/dailyrank/internal/adapters/driven/clock"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/corpus"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/dailyrank/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dailyrank/internal/adapters/driving/cli"
	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/services"
	"github.com/custodia-labs/dailyrank/internal/logger"
	"github.com/custodia-labs/dailyrank/internal/metrics"
)

// stores groups the persistence ports of one backend.
type stores struct {
	schedule  driven.ScheduleStore
	snapshots driven.SnapshotStore
	scheduler driven.SchedulerStore
	close     func() error
}

// bootstrap builds every service from the effective settings.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, os.LookupEnv)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	st, err := openStores(ctx, settings.Storage, opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage backend: %s", settings.Storage.Backend)

	m := metrics.New()
	clk := clock.System{}

	var cache driven.SnapshotCache
	if settings.Cache.TTL > 0 {
		cache = metrics.InstrumentCache(memory.NewSnapshotCache(settings.Cache.TTL, clk), m)
	}

	source := corpus.NewFileSource(settings.Corpus.Path)
	schedule := services.NewScheduleManager(
		st.schedule,
		settings.Game.EpochStart,
		rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	)

	game := metrics.InstrumentGame(
		services.NewGameService(st.snapshots, cache, clk, settings.Game),
		m,
	)
	regen := metrics.InstrumentRegenerator(
		services.NewRegenerationJob(source, schedule, services.NewRanker(), st.snapshots, cache, clk, settings.Game),
		m,
	)

	return &cli.Services{
		Settings:    settingsService,
		Game:        game,
		Regenerator: regen,
		Schedule:    schedule,
		Scheduler:   services.NewScheduler(settings.Scheduler, st.scheduler, regen),
		Corpus:      source,
		Metrics:     m,
		Close:       st.close,
	}, nil
}

func openStores(ctx context.Context, cfg domain.StorageSettings, configDir string) (*stores, error) {
	switch cfg.Backend {
	case domain.StorageBackendRedis:
		store, err := redis.NewStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		// Scheduler bookkeeping is process local with redis.
		return &stores{
			schedule:  store.ScheduleStore(),
			snapshots: store.SnapshotStore(),
			scheduler: memory.NewSchedulerStore(),
			close:     store.Close,
		}, nil

	case domain.StorageBackendMemory:
		return &stores{
			schedule:  memory.NewScheduleStore(),
			snapshots: memory.NewSnapshotStore(),
			scheduler: memory.NewSchedulerStore(),
			close:     func() error { return nil },
		}, nil

	default:
		dataDir := cfg.DataDir
		if dataDir == "" && configDir != "" {
			dataDir = filepath.Join(configDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, err
		}
		return &stores{
			schedule:  store.ScheduleStore(),
			snapshots: store.SnapshotStore(),
			scheduler: store.SchedulerStore(),
			close:     store.Close,
		}, nil
	}
}
