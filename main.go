package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/internal/container"
	"energyexplain/internal/errors"
	"energyexplain/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL connection used for evaluation storage
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLoggerWithWriter(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create dependency injection container
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		logger.Error("failed to create application container: %v", err)
		os.Exit(1)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Database.URL != "" {
		db, err := initDatabase(ctx, appConfig)
		if err != nil {
			logger.Error("failed to initialize database: %v", err)
			os.Exit(1)
		}
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			logger.Error("failed to initialize container: %v", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("DATABASE_URL not set, evaluation responses are kept in memory")
	}

	server := ui.NewServer(ui.Services{
		Sessions:    appContainer.Sessions,
		Explain:     appContainer.Explain,
		Evaluations: appContainer.Evaluations,
		Reader:      appContainer.Reader,
	}, appConfig.Server, logger)

	logger.Info("starting energyexplain on port %s", appConfig.Server.Port)
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
