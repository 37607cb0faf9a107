package commands

import (
	"fmt"

	"github.com/penwyp/go-time-tracer/internal/config"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the database holds",
	RunE:  runInfo,
}

var configInitCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file",
	Long:  "Writes the built-in defaults to the --config path so they can be edited.",
	Args:  cobra.NoArgs,
	// runs without loading the configuration it is about to create
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", config.ExpandPath(configPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configInitCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetStats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:   %s\n", env.cfg.Storage.Path)
	fmt.Fprintf(out, "Schema:     v%d\n", stats.Version)
	fmt.Fprintf(out, "Days:       %d\n", stats.Days)
	fmt.Fprintf(out, "Activities: %d\n", stats.Activities)
	if stats.Days > 0 {
		fmt.Fprintf(out, "Range:      %s ~ %s\n", stats.FirstDate, stats.LastDate)
	}
	return nil
}
