package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Run the regeneration job once",
	Long: `Extend the answer schedule if needed, write the snapshots for the
lookahead window and prune expired snapshots.

Prints what happened to every date. Exits with an error if the job
aborted or any date failed.`,
	RunE: runRegenerate,
}

func init() {
	regenerateCmd.Flags().Bool("json", false, "print the report as JSON")
	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(cmd *cobra.Command, _ []string) error {
	if regenerator == nil {
		return errors.New("regenerator not configured")
	}

	report, runErr := regenerator.Regenerate(cmd.Context())

	asJSON, _ := cmd.Flags().GetBool("json")
	if report != nil {
		if asJSON {
			if err := writeJSON(cmd, report); err != nil {
				return err
			}
		} else {
			printReport(cmd, report)
		}
	}

	if runErr != nil {
		return fmt.Errorf("regeneration failed: %w", runErr)
	}
	if report != nil && report.Failed() {
		return fmt.Errorf("%d date(s) failed", report.Count(domain.DateStatusFailed))
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.RegenerationReport) {
	cmd.Printf("Run %s\n", report.RunID)
	if report.ScheduleCreated {
		cmd.Println("Created answer schedule")
	}
	if report.CyclesAppended > 0 {
		cmd.Printf("Appended %d schedule cycle(s)\n", report.CyclesAppended)
	}

	for _, d := range report.Dates {
		switch d.Status {
		case domain.DateStatusFailed:
			cmd.Printf("  %s  %-9s  %s\n", d.Date, d.Status, d.Error)
		default:
			cmd.Printf("  %s  %-9s  answer %d  version %s\n", d.Date, d.Status, d.AnswerID, d.Version)
		}
	}

	cmd.Printf("Pruned %d expired snapshot(s)\n", report.Pruned)
	if report.PruneError != "" {
		cmd.Printf("Warning: pruning failed: %s\n", report.PruneError)
	}
}
