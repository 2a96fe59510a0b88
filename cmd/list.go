package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/report"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches of the active season",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "list matches of every season")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	filter := seasonID
	if listAll {
		filter = ""
	}
	matches, err := db.ListMatches(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'valmetrics add <telemetry.json>' to add one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List seasons with stored matches",
	Args:  cobra.NoArgs,
	RunE:  runSeasons,
}

func runSeasons(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	seasons, err := db.ListSeasons(cmd.Context())
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(seasons) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons yet.")
		return nil
	}
	report.PrintSeasons(os.Stdout, seasons)
	return nil
}
