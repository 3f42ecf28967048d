// Package app provides the application initialization and lifecycle management
package app

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/database"
	"github.com/mentorlabs/maestrobridge/internal/heuristic"
	"github.com/mentorlabs/maestrobridge/internal/history"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
)

// App represents the application instance with its dependencies
type App struct {
	Config   *config.Config
	Maestro  *maestro.Client
	Analyzer *analyzer.Service
	History  *history.Service
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Debug("application initializing",
		"provider", cfg.Provider,
		"log_level", cfg.Logging.Level,
	)

	return initServices(cfg)
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config) (*App, error) {
	logger := loggy.GetGlobalLogger()

	client := maestro.NewClient(cfg.Maestro, logger)

	var provider analyzer.Provider
	switch cfg.Provider {
	case "local":
		provider = heuristic.New(logger)
	default:
		provider = analyzer.NewMaestroProvider(client, cfg.Maestro, logger)
	}

	analyzerService := analyzer.NewService(provider, logger)

	// History is optional; failures here disable it rather than aborting,
	// since the analysis itself does not need the database.
	var historyService *history.Service
	if cfg.History.Enabled {
		if err := database.InitDB(cfg); err != nil {
			loggy.Warn("failed to initialize history database, history disabled", "error", err)
		} else if _, err := database.RunMigrations(); err != nil {
			loggy.Warn("failed to migrate history database, history disabled", "error", err)
		} else if db, err := database.DB(); err == nil {
			repo := history.NewSQLRepository(db, logger)
			historyService = history.NewService(repo, cfg.History, logger)
		}
	}

	return &App{
		Config:   cfg,
		Maestro:  client,
		Analyzer: analyzerService,
		History:  historyService,
	}, nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	if err := database.CloseDB(); err != nil {
		loggy.Error("error closing database connection", "error", err)
	}
	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	instance, ok := c.App.Metadata["app"].(*App)
	if !ok || instance == nil {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return instance, nil
}
