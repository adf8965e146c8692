package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/dqs/internal/config"
	"github.com/zjrosen/dqs/internal/infrastructure/sqlite"
	"github.com/zjrosen/dqs/internal/presentation"
)

var initDBSave bool

var initDBCmd = &cobra.Command{
	Use:   "init-db [PATH]",
	Short: "Create and migrate the people database",
	Long: `Create the people database at PATH (default: the configured database)
and apply every schema migration. With --save the path is written to the
config file, keeping its comments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Database
		if len(args) == 1 {
			path = args[0]
		}

		db, err := sqlite.NewDB(path)
		if err != nil {
			return err
		}
		if err := db.Close(); err != nil {
			return err
		}

		if initDBSave {
			if err := config.SaveDatabase(configPath(), path); err != nil {
				return fmt.Errorf("saving database path: %w", err)
			}
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatValue(map[string]any{
			"database": path,
			"saved":    initDBSave,
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo people into an empty database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := sqlite.NewDB(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		inserted, err := sqlite.Seed(cmd.Context(), db.People())
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		total, err := db.People().Count(cmd.Context())
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatValue(map[string]any{
			"inserted": inserted,
			"total":    total,
		})
	},
}

func init() {
	initDBCmd.Flags().BoolVar(&initDBSave, "save", false, "write the database path to the config file")
	rootCmd.AddCommand(initDBCmd, seedCmd)
}
