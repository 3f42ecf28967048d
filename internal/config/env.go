package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".maestrobridge")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Default database path is in the config directory
	cfg.Database.Path = filepath.Join(configDir, "maestrobridge.db")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		// User specified a custom env file path
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first
		if err := godotenv.Load(configFilePath); err != nil {
			// Then try current directory as fallback
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	cfg.Provider = getEnvString("MAESTRO_BRIDGE_PROVIDER", "maestro")

	// Maestro configuration. The credential variables deliberately carry no
	// MAESTRO_BRIDGE_ prefix: they are the provider's own conventions and are
	// shared with other Maestro tooling.
	cfg.Maestro = MaestroConfig{
		OrgID:             getEnvString("MAESTRO_ORG_ID", ""),
		APIToken:          getEnvString("MAESTRO_API_TOKEN", ""),
		BaseURL:           getEnvString("MAESTRO_BRIDGE_BASE_URL", "https://api.dantalabs.com"),
		AgentName:         getEnvString("MAESTRO_BRIDGE_AGENT_NAME", "ai-code-mentor-analyzer"),
		Timeout:           getEnvDuration("MAESTRO_BRIDGE_TIMEOUT", 60*time.Second),
		MaxRetries:        getEnvInt("MAESTRO_BRIDGE_MAX_RETRIES", 3),
		MaxProcessingTime: getEnvDuration("MAESTRO_BRIDGE_MAX_PROCESSING_TIME", 25*time.Second),
		RequestsPerMinute: getEnvInt("MAESTRO_BRIDGE_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("MAESTRO_BRIDGE_BURST_LIMIT", 1),
	}

	// History configuration
	cfg.History = HistoryConfig{
		Enabled:    getEnvBool("MAESTRO_BRIDGE_HISTORY_ENABLED", false),
		MaxRecords: getEnvInt("MAESTRO_BRIDGE_HISTORY_MAX_RECORDS", 500),
	}

	// Database configuration
	cfg.Database = DatabaseConfig{
		Path:            getEnvString("MAESTRO_BRIDGE_DB_PATH", cfg.Database.Path),
		BusyTimeout:     getEnvInt("MAESTRO_BRIDGE_DB_BUSY_TIMEOUT", 5000),
		JournalMode:     getEnvString("MAESTRO_BRIDGE_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("MAESTRO_BRIDGE_DB_SYNCHRONOUS_MODE", "NORMAL"),
		ForeignKeys:     getEnvBool("MAESTRO_BRIDGE_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("MAESTRO_BRIDGE_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("MAESTRO_BRIDGE_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	// Logging configuration. Default output is stderr: stdout carries the
	// JSON result envelope.
	cfg.Logging = LoggingConfig{
		Level:      getEnvString("MAESTRO_BRIDGE_LOG_LEVEL", "info"),
		Format:     getEnvString("MAESTRO_BRIDGE_LOG_FORMAT", "text"),
		Output:     getEnvString("MAESTRO_BRIDGE_LOG_OUTPUT", "stderr"),
		AddSource:  getEnvBool("MAESTRO_BRIDGE_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("MAESTRO_BRIDGE_LOG_TIME_FORMAT", time.RFC3339),
	}

	// Validate the configuration
	return cfg, cfg.Validate()
}
