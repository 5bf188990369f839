package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/config"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/logging"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/migrations"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/service"
)

// Usage examples on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/migration up
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/migration status
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// migrateFunc is the signature shared by the functions of the migrations package.
type migrateFunc func(ctx context.Context, db *sql.DB, logger *zap.Logger) error

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:          "migration",
		Short:        "Manage the database schema of the contact requests service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "optional YAML configuration file")

	run := func(migrate migrateFunc) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			sqlDB, err := service.CreateDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := migrate(cmd.Context(), sqlDB, logger); err != nil {
				return fmt.Errorf("%s: %w", cmd.Name(), err)
			}
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  run(migrations.Up),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE:  run(migrations.Down),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			Args:  cobra.NoArgs,
			RunE:  run(migrations.Status),
		},
	)
	return root
}
