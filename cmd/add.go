package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/ingest"
	"github.com/pable/go-val-metrics/internal/model"
	"github.com/pable/go-val-metrics/internal/report"
	"github.com/pable/go-val-metrics/internal/telemetry"
)

var team1Attacking bool

var addCmd = &cobra.Command{
	Use:   "add <telemetry.json[.zst]>",
	Short: "Aggregate a match telemetry file and store it",
	Long: `Aggregate a match telemetry file, store the match under the active season
and fold every player's record into their profile.

--team1-attacking states whether Team1 started the match on attack. It fixes which
original side (Red/Blue) is reported as Team1.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&team1Attacking, "team1-attacking", true, "Team1 started on attack")
}

func runAdd(cmd *cobra.Command, args []string) error {
	season, err := requireSeason()
	if err != nil {
		return err
	}

	raw, err := telemetry.Load(args[0])
	if err != nil {
		return fmt.Errorf("load telemetry: %w", err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := newService(db).Add(cmd.Context(), raw, team1Attacking, season)
	if errors.Is(err, model.ErrMatchExists) {
		cWarn.Fprintf(os.Stderr, "Match %s already stored, skipping.\n", raw.Metadata.MatchID)
		return nil
	}
	if err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, &res.Match.Result, season)
	report.PrintTeamTable(os.Stdout, res.Match.Result.Teams)
	report.PrintPlayerTable(os.Stdout, res.Match.Result.Records(), "")
	cOK.Fprintf(os.Stdout, "\nStored match %s (%d players updated).\n", res.Match.MatchID, len(res.Match.Result.Records()))
	cMuted.Fprintf(os.Stdout, "op %s\n", res.OpID)
	return nil
}

var previewRounds bool

var previewCmd = &cobra.Command{
	Use:   "preview <telemetry.json[.zst]>",
	Short: "Aggregate a match telemetry file without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&team1Attacking, "team1-attacking", true, "Team1 started on attack")
	previewCmd.Flags().BoolVar(&previewRounds, "rounds", false, "also print the round-by-round table")
}

func runPreview(cmd *cobra.Command, args []string) error {
	raw, err := telemetry.Load(args[0])
	if err != nil {
		return fmt.Errorf("load telemetry: %w", err)
	}
	res, err := ingest.Preview(raw, team1Attacking)
	if err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, res, res.Season)
	report.PrintTeamTable(os.Stdout, res.Teams)
	report.PrintPlayerTable(os.Stdout, res.Records(), "")
	if previewRounds {
		fmt.Fprintln(os.Stdout)
		report.PrintRoundTable(os.Stdout, res.RoundWinConditions)
	}
	return nil
}
