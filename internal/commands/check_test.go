package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
)

func checkConfig(baseURL string) config.MaestroConfig {
	return config.MaestroConfig{
		OrgID:      "org_1234567890abcdef",
		APIToken:   "test-token",
		BaseURL:    baseURL,
		AgentName:  "ai-code-mentor-analyzer",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	}
}

func TestRunCheckAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/agents":
			_, _ = w.Write([]byte(`[{"id": "a1", "name": "ai-code-mentor-analyzer"}, {"id": "a2", "name": "other"}]`))
		case "/api/v1/version":
			_, _ = w.Write([]byte(`{"version": "2.4.1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := checkConfig(server.URL)
	client := maestro.NewClient(cfg, nil)

	result := RunCheck(context.Background(), client, cfg)

	assert.True(t, result.Success)
	assert.True(t, result.Configured)
	assert.Equal(t, "2.4.1", result.Version)
	require.NotNil(t, result.AgentsCount)
	assert.Equal(t, 2, *result.AgentsCount)
	assert.Empty(t, result.Error)

	// Only a masked organization id may appear in the report.
	assert.Equal(t, "org_1234...", result.OrgID)
}

func TestRunCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	cfg := checkConfig(server.URL)
	client := maestro.NewClient(cfg, nil)

	result := RunCheck(context.Background(), client, cfg)

	assert.False(t, result.Success)
	assert.True(t, result.Configured)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.AgentsCount)
	assert.Equal(t, "org_1234...", result.OrgID)
}

func TestRunCheckUnconfigured(t *testing.T) {
	cfg := checkConfig("http://localhost:1")
	cfg.OrgID = ""
	cfg.APIToken = ""
	client := maestro.NewClient(cfg, nil)

	result := RunCheck(context.Background(), client, cfg)

	assert.False(t, result.Success)
	assert.False(t, result.Configured)
	assert.Contains(t, result.Error, "must be set")
	assert.Empty(t, result.OrgID)
}

func TestCheckResultJSON(t *testing.T) {
	count := 3
	result := maestro.CheckResult{
		Success:     true,
		Version:     "2.4.1",
		OrgID:       "org_1234...",
		Configured:  true,
		AgentsCount: &count,
	}

	var out bytes.Buffer
	require.NoError(t, writeCheckResult(&out, result))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))

	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "org_1234...", decoded["org_id"])
	assert.Equal(t, float64(3), decoded["agents_count"])
	_, hasError := decoded["error"]
	assert.False(t, hasError, "error field should be omitted on success")
}
