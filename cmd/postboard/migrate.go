package main

import (
	"github.com/spf13/cobra"

	"github.com/xzzpig/postboard/internal/core/db"
)

// migrateCmd groups the migration subcommands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cfg, db.MigrationModeSkip)
		if err != nil {
			return err
		}
		defer db.CloseDB(database)

		if err := db.Migrate(database, cfg.App.Environment); err != nil {
			return err
		}
		cmd.Println("Migrations applied")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied and pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDB(cfg, db.MigrationModeSkip)
		if err != nil {
			return err
		}
		defer db.CloseDB(database)

		status, err := db.GetMigrationStatus(database)
		if err != nil {
			return err
		}
		cmd.Printf("version: %d\n", status.Version)
		cmd.Printf("dirty:   %t\n", status.Dirty)
		cmd.Printf("pending: %v\n", status.Pending)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
