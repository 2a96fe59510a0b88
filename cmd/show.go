package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/report"
)

var (
	showPlayer string
	showRounds bool
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show a stored match by id prefix",
	Args:  lookupArg,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player puuid")
	showCmd.Flags().BoolVar(&showRounds, "rounds", false, "also print the round-by-round table")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(cmd.Context(), prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	stored, err := db.GetMatchRecord(cmd.Context(), summary.MatchID)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, &stored.Result, stored.SeasonID)
	report.PrintTeamTable(os.Stdout, stored.Result.Teams)
	report.PrintPlayerTable(os.Stdout, stored.Result.Records(), showPlayer)
	if showRounds {
		fmt.Fprintln(os.Stdout)
		report.PrintRoundTable(os.Stdout, stored.Result.RoundWinConditions)
	}
	return nil
}
