package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/config"
	"github.com/pable/go-val-metrics/internal/ingest"
	"github.com/pable/go-val-metrics/internal/ledger"
	"github.com/pable/go-val-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	seasonID   string

	cfg *config.Config
	log *logrus.Logger
)

var (
	cWarn  = color.New(color.FgYellow)
	cError = color.New(color.FgRed, color.Bold)
	cOK    = color.New(color.FgGreen)
	cMuted = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:               "valmetrics",
	Short:             "Valorant custom-match stats tool",
	Long:              "Aggregate Valorant match telemetry into per-match records and long-running player profiles.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cError.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&seasonID, "season", "", "season id (overrides config season.current)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig reads the config file, applies flag overrides and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	if seasonID != "" {
		c.Season.Current = seasonID
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", configPath, err)
	}
	l, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, log = c, l
	dbPath, seasonID = c.Storage.Path, c.Season.Current
	log.WithFields(logrus.Fields{"db": dbPath, "season": seasonID}).Debug("config loaded")
	return nil
}

func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func newService(db *storage.DB) *ingest.Service {
	l := ledger.New(db, ledger.WithLogger(log), ledger.WithWorkers(cfg.Ledger.Workers))
	return ingest.NewService(db, l, log)
}

// requireSeason returns the active season or an error telling the user how to set one.
func requireSeason() (string, error) {
	if seasonID == "" {
		return "", fmt.Errorf("no season set: pass --season or set [season] current in %s", configPath)
	}
	return seasonID, nil
}

// lookupArg rejects an empty or blank id/name argument.
func lookupArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("%s: empty argument", cmd.Name())
	}
	return nil
}
