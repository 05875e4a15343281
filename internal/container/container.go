package container

import (
	"context"
	"fmt"

	"energyexplain/adapters/excel"
	"energyexplain/adapters/memory"
	"energyexplain/adapters/postgres"
	"energyexplain/app"
	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/internal/features"
	"energyexplain/internal/fuzzy"
	"energyexplain/internal/market"
	"energyexplain/internal/migration"
	"energyexplain/internal/narrative"
	"energyexplain/internal/predictor"
	"energyexplain/internal/reasons"
	"energyexplain/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Pipeline components
	Engineer    *features.Engineer
	Trainer     *predictor.Trainer
	Categorizer *fuzzy.Categorizer
	Extractor   *reasons.Extractor
	Generator   *narrative.Generator
	Market      ports.MarketDataSource

	// Ingestion and export
	Reader   ports.RecordReader
	Exporter ports.ResponseExporter

	// Repositories (data access layer)
	EvaluationRepo ports.EvaluationRepository

	// Application services
	Sessions    *app.SessionStore
	Explain     *app.ExplainService
	Evaluations *app.EvaluationService
}

// New creates a new dependency injection container. Evaluation responses
// are kept in memory until InitWithDatabase is called.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	logger = internal.OrDefault(logger)
	p := cfg.Pipeline

	engineer, err := features.NewEngineer(p.Features, logger.With("features"))
	if err != nil {
		return nil, fmt.Errorf("failed to create feature engineer: %w", err)
	}
	categorizer, err := fuzzy.NewCategorizer(p.Fuzzy, p.Features.PeakHours, logger.With("fuzzy"))
	if err != nil {
		return nil, fmt.Errorf("failed to create categorizer: %w", err)
	}
	extractor, err := reasons.NewExtractor(p.Drivers, logger.With("reasons"))
	if err != nil {
		return nil, fmt.Errorf("failed to create reason extractor: %w", err)
	}

	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Engineer:       engineer,
		Trainer:        predictor.NewTrainer(engineer, p.Training, logger.With("predictor")),
		Categorizer:    categorizer,
		Extractor:      extractor,
		Generator:      narrative.NewGenerator(true),
		Market:         market.NewSnapshotSource(p.Drivers.Window),
		Reader:         excel.NewRecordReader(logger),
		Exporter:       excel.NewResponseExporter(),
		EvaluationRepo: memory.NewEvaluationRepository(),
	}
	c.Sessions = app.NewSessionStore(c.Trainer, p.Training, logger)
	c.Explain = app.NewExplainService(c.Sessions, c.Categorizer, c.Extractor, c.Market, c.Generator, p.Training.SampleCount, logger)
	c.initServices()
	return c, nil
}

// InitWithDatabase switches evaluation storage to PostgreSQL after running
// migrations.
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = db
	c.EvaluationRepo = postgres.NewEvaluationRepository(db)
	c.initServices()

	c.Logger.Info("container initialized with database (schema %s)", runner.Version())
	return nil
}

func (c *Container) initServices() {
	c.Evaluations = app.NewEvaluationService(c.EvaluationRepo, c.Exporter, c.Logger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
