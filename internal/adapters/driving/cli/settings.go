package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View the effective settings: config file values with environment
overrides applied.

Settings live in config.toml in the config directory. DAILYRANK_CRON_SECRET
(or CRON_SECRET), REDIS_URL, DAILYRANK_CORPUS_PATH and DAILYRANK_ADDR
override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the current settings",
	RunE:  runSettingsValidate,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to the config file",
	Long: `Write the default settings to config.toml so they can be edited.

The cron secret is never written; set it through the environment.`,
	RunE: runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Game]")
	cmd.Printf("  Epoch start: %s\n", settings.Game.EpochStart)
	cmd.Printf("  Day boundary: %s\n", settings.Game.Location())
	cmd.Printf("  Lookahead: %d day(s)\n", settings.Game.LookaheadDays)
	cmd.Printf("  Retention: %d day(s)\n", settings.Game.RetentionDays)
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Path: %s\n", settings.Corpus.Path)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	switch settings.Storage.Backend {
	case domain.StorageBackendSQLite:
		dir := settings.Storage.DataDir
		if dir == "" {
			dir = "(default)"
		}
		cmd.Printf("  Data dir: %s\n", dir)
	case domain.StorageBackendRedis:
		cmd.Printf("  Redis URL: %s\n", maskSecret(settings.Storage.RedisURL))
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Guess rate: %g/s (burst %d)\n", settings.Server.GuessRatePerSecond, settings.Server.GuessBurst)
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.TTL > 0 {
		cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	} else {
		cmd.Println("  Disabled")
	}
	cmd.Println()

	cmd.Println("[Scheduler]")
	if settings.Scheduler.Enabled {
		cmd.Println("  Enabled: yes")
		task := settings.Scheduler.GetTaskConfig(domain.TaskIDRegenerate)
		cmd.Printf("  Regenerate every: %s\n", task.Interval)
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Cron]")
	if settings.Cron.IsConfigured() {
		cmd.Printf("  Secret: %s\n", maskSecret(settings.Cron.Secret))
	} else {
		cmd.Println("  Secret: (not set, /api/cron rejects every request)")
	}

	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cmd.Println("Settings are valid.")
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	defaults.Cron.Secret = ""
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Default settings written.")
	return nil
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
