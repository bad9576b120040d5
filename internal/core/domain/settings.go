package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// StorageBackend identifies where schedule and snapshot data live.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite is an embedded SQLite database in the data directory.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendRedis is a shared Redis instance.
	StorageBackendRedis StorageBackend = "redis"

	// StorageBackendMemory keeps everything in process memory.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendRedis, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (local file)"
	case StorageBackendRedis:
		return "Redis (shared)"
	case StorageBackendMemory:
		return "Memory (lost on exit)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageBackendSQLite,
		StorageBackendRedis,
		StorageBackendMemory,
	}
}

// GameSettings holds the rules that decide which answer is live on which day.
type GameSettings struct {
	// EpochStart is the first day of the answer schedule.
	EpochStart Date

	// UTCOffsetMinutes is the fixed offset of the game's day boundary.
	UTCOffsetMinutes int

	// LookaheadDays is how many days, today included, get a snapshot ahead of time.
	LookaheadDays int

	// RetentionDays is how many past days of snapshots are kept.
	RetentionDays int
}

// Location returns the fixed time zone in which game days roll over.
func (g GameSettings) Location() *time.Location {
	offset := g.UTCOffsetMinutes
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, offset/60, offset%60)
	return time.FixedZone(name, g.UTCOffsetMinutes*60)
}

// Today returns the game day containing now.
func (g GameSettings) Today(now time.Time) Date {
	return DateIn(now, g.Location())
}

// CorpusSettings holds where the entity corpus is loaded from.
type CorpusSettings struct {
	// Path is the JSON corpus file.
	Path string
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend

	// DataDir is the directory for the SQLite database.
	DataDir string

	// RedisURL is the connection URL when Backend is redis.
	RedisURL string
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// GuessRatePerSecond limits guess submissions per client.
	GuessRatePerSecond float64

	// GuessBurst is the burst allowance for guess submissions.
	GuessBurst int
}

// CacheSettings holds the today-snapshot cache configuration.
type CacheSettings struct {
	// TTL is how long a cached snapshot is served. Zero disables caching.
	TTL time.Duration
}

// CronSettings holds the regeneration trigger configuration.
type CronSettings struct {
	// Secret is the bearer token required by the trigger endpoint.
	Secret string
}

// IsConfigured returns true if a trigger secret is set.
func (c CronSettings) IsConfigured() bool {
	return c.Secret != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	Game      GameSettings
	Corpus    CorpusSettings
	Storage   StorageSettings
	Server    ServerSettings
	Scheduler SchedulerConfig
	Cache     CacheSettings
	Cron      CronSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The cron secret is left empty; the trigger endpoint rejects every
// request until one is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Game: GameSettings{
			EpochStart:       NewDate(2025, time.October, 10),
			UTCOffsetMinutes: 9 * 60, // KST
			LookaheadDays:    3,
			RetentionDays:    3,
		},
		Corpus: CorpusSettings{
			Path: "data/corpus.json",
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		Server: ServerSettings{
			Addr:               ":8080",
			GuessRatePerSecond: 5,
			GuessBurst:         10,
		},
		Scheduler: DefaultSchedulerConfig(),
		Cache: CacheSettings{
			TTL: time.Minute,
		},
	}
}

// Validate checks settings for values the services cannot work with.
func (s AppSettings) Validate() error {
	switch {
	case s.Game.EpochStart.IsZero():
		return fmt.Errorf("%w: game.epoch_start is required", ErrInvalidInput)
	case s.Game.UTCOffsetMinutes < -14*60 || s.Game.UTCOffsetMinutes > 14*60:
		return fmt.Errorf("%w: game.utc_offset_minutes %d out of range", ErrInvalidInput, s.Game.UTCOffsetMinutes)
	case s.Game.LookaheadDays < 1:
		return fmt.Errorf("%w: game.lookahead_days must be at least 1", ErrInvalidInput)
	case s.Game.RetentionDays < 1:
		return fmt.Errorf("%w: game.retention_days must be at least 1", ErrInvalidInput)
	case !s.Storage.Backend.IsValid():
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidInput, s.Storage.Backend)
	case s.Storage.Backend == StorageBackendRedis && s.Storage.RedisURL == "":
		return fmt.Errorf("%w: storage.redis_url is required for the redis backend", ErrInvalidInput)
	case s.Server.GuessRatePerSecond <= 0:
		return fmt.Errorf("%w: server.guess_rate_per_second must be positive", ErrInvalidInput)
	case s.Server.GuessBurst < 1:
		return fmt.Errorf("%w: server.guess_burst must be at least 1", ErrInvalidInput)
	case s.Cache.TTL < 0:
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalidInput)
	}
	return nil
}
