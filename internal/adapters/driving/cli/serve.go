package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dailyrank/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

const serveShutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the regeneration scheduler",
	Long: `Start the HTTP API that the game client talks to.

The regeneration scheduler runs in the same process and keeps the schedule
and the snapshots for the coming days up to date. Disable it with
--no-scheduler when regeneration is triggered externally through
/api/cron.

Examples:
  dailyrank serve
  dailyrank serve --addr :9000 --no-scheduler`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("no-scheduler", false, "do not run the regeneration scheduler")
	serveCmd.Flags().Bool("log-json", false, "write logs as JSON")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || gameService == nil || regenerator == nil {
		return errors.New("game services not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	addr := settings.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}
	noScheduler, _ := cmd.Flags().GetBool("no-scheduler")
	if logJSON, _ := cmd.Flags().GetBool("log-json"); logJSON {
		logger.SetJSON(true)
	}

	server := httpapi.NewServer(httpapi.Config{
		Addr:       addr,
		CronSecret: settings.Cron.Secret,
		GuessRate:  rate.Limit(settings.Server.GuessRatePerSecond),
		GuessBurst: settings.Server.GuessBurst,
	}, gameService, regenerator, appMetrics)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(); err != nil {
		return err
	}
	cmd.Printf("Listening on http://%s\n", server.Addr())

	var wg sync.WaitGroup
	if schedulerService != nil && !noScheduler && settings.Scheduler.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := schedulerService.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}
	if schedulerService != nil {
		if err := schedulerService.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler: %w", err))
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
