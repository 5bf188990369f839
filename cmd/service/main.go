package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/config"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/logging"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/migrations"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/service"
)

// shutdownTimeout is how long running requests may take after SIGINT or SIGTERM.
const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run ./cmd/service
func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Println("could not load configuration:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Println("could not create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	enabled, err := logging.SetupSentry(cfg.Sentry)
	if err != nil {
		logger.Warn("continuing without error reporting", zap.Error(err))
	}
	if enabled {
		defer sentry.Flush(2 * time.Second)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := service.CreateDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(ctx, sqlDB, logger); err != nil {
			return err
		}
	}
	if err := service.SetupDatabaseWrapper(sqlDB); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           service.SetupHttpRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down: %w", err)
	}
	return nil
}
