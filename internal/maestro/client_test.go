package maestro

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlabs/maestrobridge/internal/config"
)

func testConfig(baseURL string) config.MaestroConfig {
	return config.MaestroConfig{
		OrgID:             "org_1234567890",
		APIToken:          "test-token",
		BaseURL:           baseURL,
		AgentName:         "ai-code-mentor-analyzer",
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		MaxProcessingTime: 25 * time.Second,
	}
}

func TestListAgents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/agents", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "org_1234567890", r.Header.Get("X-Organization-ID"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Agent{
			{ID: "agent-1", Name: "ai-code-mentor-analyzer"},
			{ID: "agent-2", Name: "other-agent"},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	agents, err := client.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "agent-1", agents[0].ID)
	assert.Equal(t, "ai-code-mentor-analyzer", agents[0].Name)
}

func TestExecuteAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/agents/agent-1/execute", r.URL.Path)

		var req ExecutionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 25, req.MaxProcessingTime)
		assert.Equal(t, "var x = 1", req.Variables["code"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"output": {
				"code_issues": [{"line_number": 3, "severity": "high"}],
				"confidence_score": 0.9
			},
			"nodes_used": 4
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	result, err := client.ExecuteAgent(context.Background(), "agent-1", map[string]interface{}{
		"code": "var x = 1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Output)
	require.Len(t, result.Output.CodeIssues, 1)
	assert.Equal(t, 3, *result.Output.CodeIssues[0].LineNumber)
	assert.Equal(t, "high", *result.Output.CodeIssues[0].Severity)
	assert.Equal(t, 0.9, *result.Output.ConfidenceScore)
	require.NotNil(t, result.NodesUsed)
	assert.Equal(t, 4, *result.NodesUsed)
}

func TestExecuteAgentNoOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "completed"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	_, err := client.ExecuteAgent(context.Background(), "agent-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestAPIErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"type": "authentication_error", "message": "invalid token"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	_, err := client.ListAgents(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "authentication_error", apiErr.Type)
	assert.Equal(t, "invalid token", apiErr.Message)
	assert.False(t, apiErr.IsRetryable())
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	client := NewClient(cfg, nil)

	agents, err := client.ListAgents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, agents)
	assert.Equal(t, 2, attempts)
}

func TestVersionCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/v1/version", r.URL.Path)
		_, _ = w.Write([]byte(`{"version": "2.4.1"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil)

	assert.Equal(t, "2.4.1", client.Version(context.Background()))
	assert.Equal(t, "2.4.1", client.Version(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestVersionUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	server.Close() // unreachable on purpose

	client := NewClient(testConfig(server.URL), nil)
	assert.Equal(t, "unknown", client.Version(context.Background()))
}

func TestUnconfiguredClient(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	cfg.OrgID = ""
	cfg.APIToken = ""

	client := NewClient(cfg, nil)
	_, err := client.ListAgents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
