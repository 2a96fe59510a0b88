package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, season_id, map_name, started_at, queue, team1_score, team2_score,
    record BLOB, created_at)
  match_players(match_id, puuid, name, team, agent, acs, kills, deaths, assists,
    kast, adr, hs_percentage, first_bloods, first_deaths, ...)
  players(puuid, display_name, profile TEXT, last_updated)
  seasons(season_id, match_count)

Note: matches.record and players.profile are encoded documents. Prefer
match_players for per-player queries: WHERE puuid = '...'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	log.WithField("rows", len(rows)).Debug("sql query")
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "(no rows)")
		return nil
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
