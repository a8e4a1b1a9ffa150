package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/procurement/config"
	"example.com/procurement/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	configureLogging(cfg)

	db, err := database.Connect(cfg.DB, false)
	if err != nil {
		return err
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	log.Info().Msg("Migrations completed")
	return nil
}
