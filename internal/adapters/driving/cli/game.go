package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

const defaultRankingLimit = 20

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's game",
	Long:  `Show the date, answer id and version token of today's game.`,
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

var guessCmd = &cobra.Command{
	Use:   "guess [name]",
	Short: "Submit a guess for today's game",
	Long: `Submit a guess and print its similarity score and rank.

Names are matched exactly. Without --version and --answer-id the values of
today's game are looked up first.

Examples:
  dailyrank guess "Ada Lovelace"
  dailyrank guess "Ada Lovelace" --version 1760054400000-1 --answer-id 1`,
	Args: cobra.ExactArgs(1),
	RunE: runGuess,
}

var rankingCmd = &cobra.Command{
	Use:   "ranking [date]",
	Short: "Show the ranking for a date",
	Long: `Show the full similarity ranking for a date (YYYY-MM-DD), or for today
when no date is given. Future dates are never revealed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRanking,
}

var yesterdayCmd = &cobra.Command{
	Use:   "yesterday",
	Short: "Reveal yesterday's answer",
	Args:  cobra.NoArgs,
	RunE:  runYesterday,
}

func init() {
	todayCmd.Flags().Bool("json", false, "print as JSON")

	guessCmd.Flags().String("version", "", "version token of the game being played")
	guessCmd.Flags().Int64("answer-id", 0, "answer id of the game being played")

	rankingCmd.Flags().Bool("json", false, "print as JSON")
	rankingCmd.Flags().IntP("limit", "n", defaultRankingLimit, "number of entries to show (0 = all)")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(guessCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(yesterdayCmd)
}

func runToday(cmd *cobra.Command, _ []string) error {
	if gameService == nil {
		return errors.New("game service not configured")
	}

	info, err := gameService.Today(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get today's game: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, info)
	}

	cmd.Printf("Date:      %s\n", info.Date)
	cmd.Printf("Answer ID: %d\n", info.AnswerID)
	cmd.Printf("Version:   %s\n", info.Version)
	return nil
}

func runGuess(cmd *cobra.Command, args []string) error {
	if gameService == nil {
		return errors.New("game service not configured")
	}

	guess := domain.Guess{Name: args[0]}
	guess.Version, _ = cmd.Flags().GetString("version")
	guess.AnswerID, _ = cmd.Flags().GetInt64("answer-id")

	if !cmd.Flags().Changed("version") && !cmd.Flags().Changed("answer-id") {
		info, err := gameService.Today(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get today's game: %w", err)
		}
		guess.Version = info.Version
		guess.AnswerID = info.AnswerID
	}

	result, err := gameService.SubmitGuess(cmd.Context(), guess)
	switch {
	case errors.Is(err, domain.ErrUnknownEntity):
		cmd.Printf("%q is not in today's game.\n", guess.Name)
		return nil
	case errors.Is(err, domain.ErrStaleVersion):
		return errors.New("game data mismatch, today's game has changed; run 'dailyrank today' and try again")
	case err != nil:
		return fmt.Errorf("guess failed: %w", err)
	}

	if result.IsCorrect {
		cmd.Printf("Correct! The answer is %s.\n", result.Name)
		if result.Content != "" {
			cmd.Println()
			cmd.Println(result.Content)
		}
		return nil
	}
	cmd.Printf("%s: rank %d of %d (score %.4f)\n", result.Name, result.Rank, result.Total, result.Score)
	return nil
}

func runRanking(cmd *cobra.Command, args []string) error {
	if gameService == nil {
		return errors.New("game service not configured")
	}

	var date *domain.Date
	if len(args) == 1 {
		d, err := domain.ParseDate(args[0])
		if err != nil {
			return err
		}
		date = &d
	}

	view, err := gameService.Ranking(cmd.Context(), date)
	switch {
	case errors.Is(err, domain.ErrFutureDate):
		return errors.New("that date has not been played yet")
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return errors.New("no game data for that date")
	case err != nil:
		return fmt.Errorf("failed to get ranking: %w", err)
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(view.Ranking) > limit {
		view.Ranking = view.Ranking[:limit]
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, view)
	}

	cmd.Printf("Ranking for %s (answer: %s)\n\n", view.Date, view.AnswerName)
	for _, e := range view.Ranking {
		cmd.Printf("%5d  %-32s %.4f\n", e.Rank, e.Name, e.Score)
	}
	return nil
}

func runYesterday(cmd *cobra.Command, _ []string) error {
	if gameService == nil {
		return errors.New("game service not configured")
	}

	reveal, err := gameService.PreviousAnswer(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get yesterday's answer: %w", err)
	}
	if reveal == nil {
		cmd.Println("No game was played yesterday.")
		return nil
	}
	cmd.Printf("%s: %s\n", reveal.Date, reveal.AnswerName)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
