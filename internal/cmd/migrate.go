package cmd

import (
	"github.com/sangkips/cactus-admin-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the customers and orders tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()

		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Env, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		return database.AutoMigrate(db, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
