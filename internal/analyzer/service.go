package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-enry/go-enry/v2"

	"github.com/mentorlabs/maestrobridge/internal/loggy"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
	"github.com/mentorlabs/maestrobridge/internal/ulid"
)

// languageCandidates is the set of languages the classifier chooses between
// when a request does not name one.
var languageCandidates = []string{
	"JavaScript", "TypeScript", "Python", "Go", "Java", "Ruby", "Rust", "C", "C++", "C#", "PHP",
}

// UserContext carries what the caller knows about the person submitting the
// code. All fields are optional.
type UserContext struct {
	SkillLevel string   `json:"skillLevel,omitempty"`
	FocusAreas []string `json:"focusAreas,omitempty"`
}

// Request is the analysis request read from stdin.
type Request struct {
	Code        string      `json:"code"`
	Language    string      `json:"language,omitempty"`
	FileName    string      `json:"fileName,omitempty"`
	UserContext UserContext `json:"userContext,omitempty"`
}

// ParseRequest decodes and completes an analysis request. The code field is
// required; a missing language is detected from the code itself, and the
// skill level defaults to beginner.
func ParseRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}

	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("request is missing code")
	}

	if req.Language == "" {
		req.Language = detectLanguage(req.Code)
	}
	req.Language = strings.ToLower(req.Language)

	if req.UserContext.SkillLevel == "" {
		req.UserContext.SkillLevel = "beginner"
	}

	return &req, nil
}

// detectLanguage classifies the code against the candidate set, falling back
// to javascript when the classifier comes up empty.
func detectLanguage(code string) string {
	lang, _ := enry.GetLanguageByClassifier([]byte(code), languageCandidates)
	if lang == "" {
		return "javascript"
	}
	return strings.ToLower(lang)
}

// ProviderResult is what a provider returns on success.
type ProviderResult struct {
	Output  *maestro.AnalysisOutput
	Version string
	AgentID string
}

// Provider produces a raw analysis document for a request.
type Provider interface {
	Analyze(ctx context.Context, req *Request) (*ProviderResult, error)
}

// Envelope is the JSON document written to stdout. Exactly one of the
// success or failure shapes is populated; the process exit code never
// signals failure.
type Envelope struct {
	Success          bool    `json:"success"`
	Data             *Result `json:"data,omitempty"`
	ProcessingTime   *int64  `json:"processingTime,omitempty"`
	MaestroVersion   string  `json:"maestroVersion,omitempty"`
	AgentID          string  `json:"agentId,omitempty"`
	Error            string  `json:"error,omitempty"`
	FallbackRequired bool    `json:"fallback_required,omitempty"`
	Timestamp        string  `json:"timestamp"`
}

// Service runs analysis requests against a provider and wraps the outcome in
// the envelope protocol.
type Service struct {
	provider Provider
	logger   *loggy.Logger
	now      func() time.Time
}

// NewService creates an analysis service backed by the given provider.
func NewService(provider Provider, logger *loggy.Logger) *Service {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Service{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs one request end to end. It never returns an error: provider
// failures become failure envelopes carrying the fallback result.
func (s *Service) Analyze(ctx context.Context, req *Request) Envelope {
	start := s.now()
	logger := s.logger.With("request_id", ulid.RequestID())

	logger.Info("starting analysis",
		"language", req.Language,
		"code_bytes", len(req.Code),
		"skill_level", req.UserContext.SkillLevel,
	)

	pr, err := s.provider.Analyze(ctx, req)
	if err != nil {
		logger.Warn("provider failed, falling back", "error", err)
		return s.failureEnvelope(err.Error())
	}

	elapsed := s.now().Sub(start).Milliseconds()
	result := AssembleResult(pr.Output, elapsed)

	logger.Info("analysis complete",
		"issues", len(result.Issues),
		"overall_score", result.Metrics.OverallScore,
		"elapsed_ms", elapsed,
	)

	return Envelope{
		Success:        true,
		Data:           &result,
		ProcessingTime: &elapsed,
		MaestroVersion: pr.Version,
		AgentID:        pr.AgentID,
		Timestamp:      s.now().UTC().Format(time.RFC3339),
	}
}

// FailureEnvelope builds the failure shape for errors that occur before a
// provider is even called, such as unreadable requests.
func (s *Service) FailureEnvelope(message string) Envelope {
	return s.failureEnvelope(message)
}

func (s *Service) failureEnvelope(message string) Envelope {
	env := NewFailureEnvelope(message)
	env.Timestamp = s.now().UTC().Format(time.RFC3339)
	return env
}

// NewFailureEnvelope builds a failure envelope carrying the fallback result.
// It is usable before any service exists, for errors during startup.
func NewFailureEnvelope(message string) Envelope {
	fallback := FallbackResult()
	return Envelope{
		Success:          false,
		Error:            message,
		FallbackRequired: true,
		Data:             &fallback,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}
