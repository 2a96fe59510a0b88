package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/model"
)

var removeCmd = &cobra.Command{
	Use:   "remove <match-id-prefix>",
	Short: "Remove a stored match and roll its stats out of player profiles",
	Args:  lookupArg,
	RunE:  runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", args[0])
		return nil
	}

	res, err := newService(db).Remove(cmd.Context(), summary.MatchID)
	if errors.Is(err, model.ErrMatchNotFound) {
		fmt.Fprintf(os.Stderr, "Match %s is no longer stored.\n", summary.MatchID)
		return nil
	}
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		cWarn.Fprintf(os.Stderr, "warning: skipped %s\n", w)
	}
	cOK.Fprintf(os.Stdout, "Removed match %s from season %s (%d players).\n",
		res.Match.MatchID, res.Match.SeasonID, len(res.Match.Result.Records())-len(res.Warnings))
	cMuted.Fprintf(os.Stdout, "op %s\n", res.OpID)
	return nil
}
