package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Provider: "maestro",
		Maestro: MaestroConfig{
			BaseURL:           "https://api.dantalabs.com",
			AgentName:         "ai-code-mentor-analyzer",
			Timeout:           60 * time.Second,
			MaxRetries:        3,
			MaxProcessingTime: 25 * time.Second,
		},
		History: HistoryConfig{Enabled: false, MaxRecords: 500},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing credentials are not an error", func(t *testing.T) {
		cfg := validConfig()
		cfg.Maestro.OrgID = ""
		cfg.Maestro.APIToken = ""
		assert.NoError(t, cfg.Validate())
		assert.False(t, cfg.Maestro.Configured())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty base URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Maestro.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("stdout log output rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Output = "stdout"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("history enabled requires database path", func(t *testing.T) {
		cfg := validConfig()
		cfg.History.Enabled = true
		cfg.Database = DatabaseConfig{
			Path:         "",
			BusyTimeout:  5000,
			ConnMaxLife:  5 * time.Minute,
			QueryTimeout: 30 * time.Second,
		}
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigured(t *testing.T) {
	m := MaestroConfig{}
	assert.False(t, m.Configured())

	m.OrgID = "org_123"
	assert.False(t, m.Configured())

	m.APIToken = "tok_456"
	assert.True(t, m.Configured())
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MAESTRO_ORG_ID", "org_1234567890")
	t.Setenv("MAESTRO_API_TOKEN", "secret-token")
	t.Setenv("MAESTRO_BRIDGE_PROVIDER", "local")
	t.Setenv("MAESTRO_BRIDGE_TIMEOUT", "45s")
	t.Setenv("MAESTRO_BRIDGE_HISTORY_ENABLED", "true")
	t.Setenv("MAESTRO_BRIDGE_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, "org_1234567890", cfg.Maestro.OrgID)
	assert.Equal(t, "secret-token", cfg.Maestro.APIToken)
	assert.Equal(t, 45*time.Second, cfg.Maestro.Timeout)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.True(t, cfg.Maestro.Configured())
}

func TestLoadFromEnvDefaults(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MAESTRO_ORG_ID", "")
	t.Setenv("MAESTRO_API_TOKEN", "")

	cfg, err := LoadFromEnv(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "maestro", cfg.Provider)
	assert.Equal(t, "https://api.dantalabs.com", cfg.Maestro.BaseURL)
	assert.Equal(t, "ai-code-mentor-analyzer", cfg.Maestro.AgentName)
	assert.Equal(t, 60*time.Second, cfg.Maestro.Timeout)
	assert.Equal(t, 3, cfg.Maestro.MaxRetries)
	assert.False(t, cfg.History.Enabled)
	assert.False(t, cfg.Maestro.Configured())
}

func TestGetSet(t *testing.T) {
	original := globalConfig
	defer Set(original)

	Set(nil)
	_, err := Get()
	assert.Error(t, err)

	cfg := validConfig()
	Set(cfg)
	got, err := Get()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLogLevel("debug").String())
	assert.Equal(t, "INFO", ParseLogLevel("info").String())
	assert.Equal(t, "WARN", ParseLogLevel("warn").String())
	assert.Equal(t, "ERROR", ParseLogLevel("error").String())
	assert.Equal(t, "INFO", ParseLogLevel("unknown").String())
}
