package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database and its WAL files",
	Long: `Delete the SQLite database holding every stored match and player profile.

Without --force, drop only reports what would be lost. Profiles are rebuilt by
adding the telemetry files again.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without the dry-run report")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stdout, "No database at %s.\n", dbPath)
		return nil
	}

	if !dropForce {
		db, err := openStore()
		if err != nil {
			return err
		}
		matches, players, err := db.Totals(cmd.Context())
		db.Close()
		if err != nil {
			return fmt.Errorf("count stored data: %w", err)
		}
		cWarn.Fprintf(os.Stderr, "%s holds %d matches and %d player profiles.\n", dbPath, matches, players)
		fmt.Fprintln(os.Stderr, "Run 'valmetrics drop --force' to delete them.")
		return nil
	}

	var removed int
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		log.WithField("path", path).Debug("removed")
		removed++
	}
	cOK.Fprintf(os.Stdout, "Dropped %s (%d files).\n", dbPath, removed)
	return nil
}
