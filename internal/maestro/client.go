// Package maestro implements a client for the Maestro distributed agent
// platform. It covers the small slice of the API the bridge needs: listing
// and creating agents, executing the analysis agent, and reading the
// platform version.
package maestro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
)

// Client is a Maestro API client.
type Client struct {
	cfg        config.MaestroConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *loggy.Logger

	versionOnce sync.Once
	version     string
}

// NewClient creates a new Maestro API client from the given configuration.
func NewClient(cfg config.MaestroConfig, logger *loggy.Logger) *Client {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.BurstLimit
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// ListAgents returns the agents visible to the configured organization.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := c.makeRequest(ctx, http.MethodGet, "/api/v1/agents", nil, &agents); err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	return agents, nil
}

// CreateAgentDefinition registers a new agent definition.
func (c *Client) CreateAgentDefinition(ctx context.Context, def AgentDefinitionCreate) (*AgentDefinition, error) {
	var created AgentDefinition
	if err := c.makeRequest(ctx, http.MethodPost, "/api/v1/agent-definitions", def, &created); err != nil {
		return nil, fmt.Errorf("creating agent definition: %w", err)
	}
	return &created, nil
}

// CreateAgent instantiates an agent from an existing definition.
func (c *Client) CreateAgent(ctx context.Context, req AgentCreate) (*Agent, error) {
	var created Agent
	if err := c.makeRequest(ctx, http.MethodPost, "/api/v1/agents", req, &created); err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	return &created, nil
}

// ExecuteAgent runs the given agent with the supplied variables and waits for
// the result. The configured max processing time is forwarded to the platform
// as an execution budget.
func (c *Client) ExecuteAgent(ctx context.Context, agentID string, variables map[string]interface{}) (*ExecutionResult, error) {
	req := ExecutionRequest{
		Variables:         variables,
		MaxProcessingTime: int(c.cfg.MaxProcessingTime.Seconds()),
	}

	path := fmt.Sprintf("/api/v1/agents/%s/execute", url.PathEscape(agentID))

	var result ExecutionResult
	if err := c.makeRequest(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, fmt.Errorf("executing agent %s: %w", agentID, err)
	}

	if result.Output == nil {
		return nil, fmt.Errorf("executing agent %s: execution returned no output", agentID)
	}

	return &result, nil
}

// Version returns the platform version. The value is fetched once per client
// and cached; if the endpoint is unreachable the version is "unknown".
func (c *Client) Version(ctx context.Context) string {
	c.versionOnce.Do(func() {
		c.version = "unknown"

		var info VersionInfo
		if err := c.makeRequest(ctx, http.MethodGet, "/api/v1/version", nil, &info); err != nil {
			c.logger.Debug("failed to fetch maestro version", "error", err)
			return
		}
		if info.Version != "" {
			c.version = info.Version
		}
	})
	return c.version
}

// makeRequest performs an HTTP request with rate limiting and retries, and
// decodes the JSON response into result when result is non-nil.
func (c *Client) makeRequest(ctx context.Context, method, path string, body, result interface{}) error {
	if !c.cfg.Configured() {
		return fmt.Errorf("maestro credentials not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	operation := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
		req.Header.Set("X-Organization-ID", c.cfg.OrgID)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debug("maestro request", "method", method, "path", path)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := c.handleErrorResponse(resp)
			if !apiErr.IsRetryable() {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		if result == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}

		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxElapsedTime = c.cfg.Timeout

	retries := backoff.WithMaxRetries(expBackoff, uint64(c.cfg.MaxRetries))
	return backoff.Retry(operation, backoff.WithContext(retries, ctx))
}

// handleErrorResponse builds an APIError from a non-2xx response.
func (c *Client) handleErrorResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Type:       "api_error",
		Message:    resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var parsed struct {
		Detail string `json:"detail"`
		Error  struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			apiErr.Type = parsed.Error.Type
			apiErr.Message = parsed.Error.Message
		} else if parsed.Detail != "" {
			apiErr.Message = parsed.Detail
		}
	}

	c.logger.Warn("maestro API error",
		"status", resp.StatusCode,
		"type", apiErr.Type,
		"message", apiErr.Message,
	)

	return apiErr
}
