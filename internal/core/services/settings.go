package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEpochStart        = "game.epoch_start"
	keyUTCOffsetMinutes  = "game.utc_offset_minutes"
	keyLookaheadDays     = "game.lookahead_days"
	keyRetentionDays     = "game.retention_days"
	keyCorpusPath        = "corpus.path"
	keyStorageBackend    = "storage.backend"
	keyStorageDataDir    = "storage.data_dir"
	keyRedisURL          = "storage.redis_url"
	keyServerAddr        = "server.addr"
	keyGuessRate         = "server.guess_rate_per_second"
	keyGuessBurst        = "server.guess_burst"
	keySchedulerEnabled  = "scheduler.enabled"
	keySchedulerInterval = "scheduler.interval"
	keyCacheTTL          = "cache.ttl"
	keyCronSecret        = "cron.secret"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvCronSecret       = "DAILYRANK_CRON_SECRET"
	EnvCronSecretLegacy = "CRON_SECRET"
	EnvRedisURL         = "REDIS_URL"
	EnvCorpusPath       = "DAILYRANK_CORPUS_PATH"
	EnvAddr             = "DAILYRANK_ADDR"
)

// EnvLookup reads an environment variable. os.LookupEnv satisfies it.
type EnvLookup func(key string) (string, bool)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	env         EnvLookup
}

// NewSettingsService creates a new settings service.
// env may be nil, in which case no environment overrides apply.
func NewSettingsService(configStore driven.ConfigStore, env EnvLookup) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		env:         env,
	}
}

// Get retrieves current application settings.
// Missing or unparseable values fall back to defaults; environment
// variables take precedence over the config file.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Game: domain.GameSettings{
			EpochStart:       s.getDate(keyEpochStart, defaults.Game.EpochStart),
			UTCOffsetMinutes: s.getInt(keyUTCOffsetMinutes, defaults.Game.UTCOffsetMinutes),
			LookaheadDays:    s.getInt(keyLookaheadDays, defaults.Game.LookaheadDays),
			RetentionDays:    s.getInt(keyRetentionDays, defaults.Game.RetentionDays),
		},
		Corpus: domain.CorpusSettings{
			Path: s.getString(keyCorpusPath, defaults.Corpus.Path, EnvCorpusPath),
		},
		Storage: domain.StorageSettings{
			Backend:  s.getBackend(defaults.Storage.Backend),
			DataDir:  s.getString(keyStorageDataDir, defaults.Storage.DataDir),
			RedisURL: s.getString(keyRedisURL, defaults.Storage.RedisURL, EnvRedisURL),
		},
		Server: domain.ServerSettings{
			Addr:               s.getString(keyServerAddr, defaults.Server.Addr, EnvAddr),
			GuessRatePerSecond: s.getFloat(keyGuessRate, defaults.Server.GuessRatePerSecond),
			GuessBurst:         s.getInt(keyGuessBurst, defaults.Server.GuessBurst),
		},
		Scheduler: s.GetSchedulerConfig(),
		Cache: domain.CacheSettings{
			TTL: s.getDuration(keyCacheTTL, defaults.Cache.TTL),
		},
		Cron: domain.CronSettings{
			Secret: s.getString(keyCronSecret, defaults.Cron.Secret, EnvCronSecret, EnvCronSecretLegacy),
		},
	}

	return settings, nil
}

// Save persists application settings.
// The cron secret is only written when set, so a secret supplied through
// the environment is not copied into the config file by accident.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEpochStart, settings.Game.EpochStart.String()},
		{keyUTCOffsetMinutes, settings.Game.UTCOffsetMinutes},
		{keyLookaheadDays, settings.Game.LookaheadDays},
		{keyRetentionDays, settings.Game.RetentionDays},
		{keyCorpusPath, settings.Corpus.Path},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyRedisURL, settings.Storage.RedisURL},
		{keyServerAddr, settings.Server.Addr},
		{keyGuessRate, settings.Server.GuessRatePerSecond},
		{keyGuessBurst, settings.Server.GuessBurst},
		{keySchedulerEnabled, settings.Scheduler.Enabled},
		{keySchedulerInterval, settings.Scheduler.GetTaskConfig(domain.TaskIDRegenerate).Interval.String()},
		{keyCacheTTL, settings.Cache.TTL.String()},
	}
	if settings.Cron.IsConfigured() {
		values = append(values, struct {
			key   string
			value any
		}{keyCronSecret, settings.Cron.Secret})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("saving %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	defaults := domain.DefaultSchedulerConfig()

	// Master switch
	defaults.Enabled = s.getBool(keySchedulerEnabled, defaults.Enabled)

	taskCfg := defaults.TaskConfigs[domain.TaskIDRegenerate]
	taskCfg.Interval = s.getDuration(keySchedulerInterval, taskCfg.Interval)
	taskCfg.Enabled = defaults.Enabled
	defaults.TaskConfigs[domain.TaskIDRegenerate] = taskCfg

	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) lookupEnv(keys ...string) (string, bool) {
	if s.env == nil {
		return "", false
	}
	for _, k := range keys {
		if v, ok := s.env(k); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (s *SettingsService) getString(key, defaultVal string, envKeys ...string) string {
	if v, ok := s.lookupEnv(envKeys...); ok {
		return v
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats an explicit 0 as set, so a UTC offset of zero is honoured.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if s.configStore.GetString(key) == "0" || s.configStore.GetString(key) == "0s" {
		return 0
	}
	d := s.configStore.GetDuration(key)
	if d == 0 {
		logger.Warn("ignoring invalid duration for %s", key)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getDate(key string, defaultVal domain.Date) domain.Date {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := domain.ParseDate(val)
	if err != nil {
		logger.Warn("ignoring invalid date for %s: %v", key, err)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		logger.Warn("unknown storage backend %q, using %s", val, defaultVal)
		return defaultVal
	}
	return backend
}
