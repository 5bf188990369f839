// Package migrations holds the database schema of the service as goose migrations embedded into
// the binary.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// TableName is the goose version table.
const TableName = "goose_db_version"

//go:embed *.sql
var files embed.FS

// Files returns the embedded migration files.
func Files() embed.FS {
	return files
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := setup(logger); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := setup(logger); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("could not roll back migration: %w", err)
	}
	return nil
}

// Status logs the state of every migration.
func Status(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := setup(logger); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("could not read migration status: %w", err)
	}
	return nil
}

func setup(logger *zap.Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	goose.SetTableName(TableName)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("could not set dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zap. Fatalf does not exit, goose returns an error that
// reaches the caller.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (g gooseLogger) Printf(format string, args ...interface{}) {
	g.log.Infof(format, args...)
}

func (g gooseLogger) Fatalf(format string, args ...interface{}) {
	g.log.Errorf(format, args...)
}
