package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/pable/go-val-metrics/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialise the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file, keeping --db and --season overrides",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	cMuted.Fprintf(os.Stdout, "# %s\n", configPath)
	_, err = os.Stdout.Write(out)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		cWarn.Fprintf(os.Stderr, "%s already exists. Re-run with --force to overwrite.\n", configPath)
		return nil
	}
	c := config.DefaultConfig()
	c.Storage.Path = dbPath
	c.Season.Current = seasonID
	if err := c.Save(configPath); err != nil {
		return err
	}
	cOK.Fprintf(os.Stdout, "Wrote %s\n", configPath)
	return nil
}
