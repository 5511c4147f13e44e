package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/config"
	"github.com/xSteins/PencatatanKalori-sub000/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var db storage.DataSource
			switch cfg.DBType {
			case "sqlite":
				db, err = storage.NewSQLiteRepositories(cmd.Context(), cfg.SQLitePath, logger)
			case "postgres":
				db, err = storage.NewPostgresRepositories(cmd.Context(), cfg.DBDSN, logger)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s backend has no schema, nothing to migrate\n", cfg.DBType)
				return nil
			}
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.DBType)
			return nil
		},
	}
}
