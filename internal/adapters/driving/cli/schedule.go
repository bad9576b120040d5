package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
	"github.com/custodia-labs/dailyrank/internal/logger"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect the answer schedule",
	Long:  `Inspect which answer is assigned to which date.`,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled answers",
	Long: `List the answer schedule, one date per line with the answer name.

The schedule reveals future answers. Treat its output as secret.`,
	Args: cobra.NoArgs,
	RunE: runScheduleList,
}

var scheduleGetCmd = &cobra.Command{
	Use:   "get [date]",
	Short: "Show the answer for one date",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleGet,
}

func init() {
	scheduleListCmd.Flags().String("from", "", "first date to list (YYYY-MM-DD)")
	scheduleListCmd.Flags().IntP("limit", "n", 0, "maximum number of entries (0 = all)")
	scheduleListCmd.Flags().Bool("json", false, "print entries as JSON")
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleGetCmd)
	rootCmd.AddCommand(scheduleCmd)
}

type scheduleRow struct {
	Date     domain.Date `json:"date"`
	AnswerID int64       `json:"answerId"`
	Name     string      `json:"name,omitempty"`
}

func runScheduleList(cmd *cobra.Command, _ []string) error {
	if scheduleService == nil {
		return errors.New("schedule service not configured")
	}

	entries, err := scheduleService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list schedule: %w", err)
	}

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		start, err := domain.ParseDate(from)
		if err != nil {
			return err
		}
		for len(entries) > 0 && entries[0].Date.Before(start) {
			entries = entries[1:]
		}
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	names := answerNames(cmd)
	rows := make([]scheduleRow, len(entries))
	for i, e := range entries {
		rows[i] = scheduleRow{Date: e.Date, AnswerID: e.AnswerID, Name: names[e.AnswerID]}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, rows)
	}

	if len(rows) == 0 {
		cmd.Println("No scheduled answers. Run 'dailyrank regenerate' to create the schedule.")
		return nil
	}
	for _, r := range rows {
		cmd.Println(formatScheduleRow(r))
	}
	return nil
}

func runScheduleGet(cmd *cobra.Command, args []string) error {
	if scheduleService == nil {
		return errors.New("schedule service not configured")
	}

	date, err := domain.ParseDate(args[0])
	if err != nil {
		return err
	}
	id, err := scheduleService.Resolve(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", date, err)
	}

	cmd.Println(formatScheduleRow(scheduleRow{Date: date, AnswerID: id, Name: answerNames(cmd)[id]}))
	return nil
}

func formatScheduleRow(r scheduleRow) string {
	if r.Name == "" {
		return fmt.Sprintf("%s  #%d", r.Date, r.AnswerID)
	}
	return fmt.Sprintf("%s  %s (#%d)", r.Date, r.Name, r.AnswerID)
}

// answerNames maps answer ids to names. Missing corpus data only loses names.
func answerNames(cmd *cobra.Command) map[int64]string {
	names := make(map[int64]string)
	if corpusSource == nil {
		return names
	}
	corpus, err := corpusSource.Load(cmd.Context())
	if err != nil {
		logger.Warn("failed to load corpus, showing ids only: %v", err)
		return names
	}
	for _, e := range corpus.Entities() {
		names[e.ID] = e.Name
	}
	return names
}
