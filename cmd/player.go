package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/report"
)

var (
	playerLast   int
	playersAll   bool
	playerAgents bool
)

// playerCmd prints the aggregate profile of one player.
var playerCmd = &cobra.Command{
	Use:   "player <puuid-prefix|name>",
	Short: "Show a player's career and season profile",
	Args:  lookupArg,
	RunE:  runPlayer,
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Leaderboard of players in the active season, by average ACS",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playerCmd.Flags().IntVar(&playerLast, "last", 10, "number of recent matches to list (0 = all)")
	playerCmd.Flags().BoolVar(&playerAgents, "agents", true, "print the per-agent table")
	playersCmd.Flags().BoolVar(&playersAll, "all", false, "rank career stats instead of the active season")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	found, err := db.FindPlayers(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("find player: %w", err)
	}
	switch {
	case len(found) == 0:
		fmt.Fprintf(os.Stderr, "No player matching %q\n", args[0])
		return nil
	case len(found) > 1:
		cWarn.Fprintf(os.Stderr, "%d players match %q, be more specific:\n", len(found), args[0])
		for _, p := range found {
			fmt.Fprintf(os.Stderr, "  %s  %s\n", p.ID, p.CurrentName)
		}
		return nil
	}
	p := found[0]

	report.PrintProfile(os.Stdout, p)
	if playerAgents {
		agents := p.OverallStats.Agents
		scope := "career"
		if sec, ok := p.Seasons[seasonID]; ok && seasonID != "" {
			agents, scope = sec.Agents, seasonID
		}
		fmt.Fprintf(os.Stdout, "\nAgents (%s)\n", scope)
		report.PrintAgentTable(os.Stdout, agents)
	}

	rows, err := db.GetPlayerMatches(cmd.Context(), p.ID, playerLast)
	if err != nil {
		return fmt.Errorf("player matches: %w", err)
	}
	if len(rows) > 0 {
		fmt.Fprintln(os.Stdout, "\nRecent matches")
		report.PrintPlayerMatches(os.Stdout, rows)
	}
	return nil
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	filter := seasonID
	if playersAll {
		filter = ""
	}
	players, err := db.ListPlayers(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players yet.")
		return nil
	}
	report.PrintPlayerList(os.Stdout, players)
	return nil
}
