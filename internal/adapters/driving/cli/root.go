// Package cli provides the dailyrank command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailyrank/internal/core/ports/driven"
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
	"github.com/custodia-labs/dailyrank/internal/logger"
	"github.com/custodia-labs/dailyrank/internal/metrics"
)

// annotationNoServices marks commands that run without bootstrapping services.
const annotationNoServices = "dailyrank/no-services"

// envFiles are loaded from the working directory before services are built.
// Earlier files win; godotenv never overrides variables already set.
var envFiles = []string{".env.local", ".env"}

// Options carries the global flags a Bootstrap needs.
type Options struct {
	// ConfigDir overrides the config directory. Empty means ~/.dailyrank.
	ConfigDir string
}

// Services is the set of services the commands drive.
type Services struct {
	Settings    driving.SettingsService
	Game        driving.GameService
	Regenerator driving.Regenerator
	Schedule    driving.ScheduleService
	Scheduler   driving.Scheduler
	Corpus      driven.CorpusSource

	// Metrics is exposed by serve. May be nil.
	Metrics *metrics.Metrics

	// Close releases storage connections. May be nil.
	Close func() error
}

// Bootstrap builds the services once global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	version = "dev"

	configDir string
	verbose   bool

	bootstrap     Bootstrap
	closeServices func() error

	settingsService  driving.SettingsService
	gameService      driving.GameService
	regenerator      driving.Regenerator
	scheduleService  driving.ScheduleService
	schedulerService driving.Scheduler
	corpusSource     driven.CorpusSource
	appMetrics       *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "dailyrank",
	Short: "Daily semantic similarity guessing game",
	Long: `dailyrank serves a daily guessing game. Every day one entity from the
corpus is the answer; every guess is ranked by how close its embedding is
to the answer's.

Run "dailyrank serve" to start the HTTP API and the regeneration scheduler,
or use the other commands to inspect and play the game from a terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.dailyrank)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs already built services.
func SetServices(s *Services) {
	settingsService = s.Settings
	gameService = s.Game
	regenerator = s.Regenerator
	scheduleService = s.Schedule
	schedulerService = s.Scheduler
	corpusSource = s.Corpus
	appMetrics = s.Metrics
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices == nil {
			return
		}
		if err := closeServices(); err != nil {
			logger.Warn("failed to close services: %v", err)
		}
		closeServices = nil
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := loadEnvFiles(); err != nil {
		return err
	}

	if !needsServices(cmd) || servicesReady() || bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	SetServices(svc)
	return nil
}

func loadEnvFiles() error {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			logger.Debug("loaded environment from %s", name)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoServices] == "true" {
			return false
		}
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return true
}

func servicesReady() bool {
	return settingsService != nil && gameService != nil
}
