package cmd

import (
	"fmt"
	"strconv"

	"lottoledger/config"
	"lottoledger/database"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command group
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ledger database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			setupLogging(cfg, rootOpts.Verbose)
			return database.MigrateUp(cfg.GetDatabaseURL())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive number, got %q", args[0])
				}
				steps = n
			}
			cfg := config.Get()
			setupLogging(cfg, rootOpts.Verbose)
			return database.MigrateDown(cfg.GetDatabaseURL(), steps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			setupLogging(cfg, rootOpts.Verbose)

			status, err := database.GetMigrationStatus(cfg.GetDatabaseURL())
			if err != nil {
				return err
			}

			text := "No migrations applied"
			if status.Applied {
				text = fmt.Sprintf("Version: %d", status.Version)
				if status.Dirty {
					text += " (dirty)"
				}
			}
			return render(cmd, rootOpts, status, text)
		},
	})

	return cmd
}
