package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/internal/storage/sqlite"
	"github.com/mmynk/splitsmart/pkg/logging"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Long: `Apply pending schema migrations to the database at DB_PATH.

Examples:
  splitsmart migrate
  DB_PATH=/var/lib/splitsmart/ledger.db splitsmart migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)

			version, err := sqlite.Migrate(cmd.Context(), cfg.DBPath)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			slog.Info("Database migrated", "database", cfg.DBPath, "version", version)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
