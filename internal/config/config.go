// Package config holds the application configuration, loaded once per
// process from environment variables and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	Provider string // Which analysis provider to use (maestro or local)
	Maestro  MaestroConfig
	History  HistoryConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// MaestroConfig holds Maestro API configuration
type MaestroConfig struct {
	// Authentication and connection
	OrgID    string // Maestro organization identifier
	APIToken string // Maestro API token
	BaseURL  string // Maestro API base URL

	// Agent settings
	AgentName string // Name of the code analysis agent to find or create

	// Request settings
	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	// Execution budget forwarded to the provider. The provider may ignore it;
	// no timeout is enforced on this side.
	MaxProcessingTime time.Duration

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// Configured reports whether both Maestro credentials are present.
// Missing credentials are not a validation error: the analyze entry point
// folds them into its failure envelope and the check entry point reports them.
func (m MaestroConfig) Configured() bool {
	return m.OrgID != "" && m.APIToken != ""
}

// HistoryConfig controls the optional local record of past analyses
type HistoryConfig struct {
	Enabled    bool // Whether analyses are recorded locally
	MaxRecords int  // Records kept before the oldest are pruned
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error, none
	Format     string // text or json
	Output     string // stderr or file path (stdout is the result transport)
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		Provider: "",
		Maestro:  MaestroConfig{},
		History:  HistoryConfig{},
		Database: DatabaseConfig{},
		Logging:  LoggingConfig{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return fmt.Errorf("provider config: %w", err)
	}

	if err := c.validateMaestro(); err != nil {
		return fmt.Errorf("maestro config: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateProvider() error {
	switch c.Provider {
	case "maestro", "local":
		return nil
	case "":
		return fmt.Errorf("provider cannot be empty")
	default:
		return fmt.Errorf("unknown provider: %s (must be maestro or local)", c.Provider)
	}
}

func (c *Config) validateMaestro() error {
	if c.Maestro.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if c.Maestro.AgentName == "" {
		return fmt.Errorf("agent name cannot be empty")
	}

	if c.Maestro.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.Maestro.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	// The database is only touched when history is enabled
	if !c.History.Enabled {
		return nil
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	dir := filepath.Dir(c.Database.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}

	if c.Database.ConnMaxLife <= 0 {
		return fmt.Errorf("connection max life must be positive")
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// stdout carries the result envelope and must stay clean
	if c.Logging.Output == "stdout" {
		return fmt.Errorf("log output cannot be stdout")
	}

	return nil
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
