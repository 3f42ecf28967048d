package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
)

// agentDescription is used when the analysis agent has to be registered.
const agentDescription = "Educational code analysis agent for the AI code mentor"

// MaestroProvider runs analyses on the Maestro platform, finding or creating
// the configured analysis agent on first use.
type MaestroProvider struct {
	client *maestro.Client
	cfg    config.MaestroConfig
	logger *loggy.Logger

	mu      sync.Mutex
	agentID string
}

// NewMaestroProvider creates a provider backed by the given Maestro client.
func NewMaestroProvider(client *maestro.Client, cfg config.MaestroConfig, logger *loggy.Logger) *MaestroProvider {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &MaestroProvider{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Analyze executes the analysis agent with the request payload.
func (p *MaestroProvider) Analyze(ctx context.Context, req *Request) (*ProviderResult, error) {
	if !p.cfg.Configured() {
		return nil, fmt.Errorf("maestro credentials not configured")
	}

	agentID, err := p.ensureAgent(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving analysis agent: %w", err)
	}

	variables := map[string]interface{}{
		"code":      req.Code,
		"language":  req.Language,
		"file_name": req.FileName,
		"user_context": map[string]interface{}{
			"skill_level": req.UserContext.SkillLevel,
			"focus_areas": req.UserContext.FocusAreas,
		},
	}

	exec, err := p.client.ExecuteAgent(ctx, agentID, variables)
	if err != nil {
		return nil, err
	}

	output := exec.Output
	if output.NodesUsed == nil && exec.NodesUsed != nil {
		output.NodesUsed = exec.NodesUsed
	}

	return &ProviderResult{
		Output:  output,
		Version: p.client.Version(ctx),
		AgentID: agentID,
	}, nil
}

// ensureAgent looks up the configured agent by name, registering a definition
// and instantiating an agent if none exists yet. The id is cached for the
// lifetime of the provider.
func (p *MaestroProvider) ensureAgent(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.agentID != "" {
		return p.agentID, nil
	}

	agents, err := p.client.ListAgents(ctx)
	if err != nil {
		return "", err
	}

	for _, a := range agents {
		if a.Name == p.cfg.AgentName {
			p.logger.Debug("found existing analysis agent", "agent_id", a.ID)
			p.agentID = a.ID
			return a.ID, nil
		}
	}

	p.logger.Info("analysis agent not found, creating", "name", p.cfg.AgentName)

	def, err := p.client.CreateAgentDefinition(ctx, maestro.AgentDefinitionCreate{
		Name:        p.cfg.AgentName,
		Description: agentDescription,
		Content:     analysisAgentPrompt,
		Language:    "natural",
	})
	if err != nil {
		return "", err
	}

	agent, err := p.client.CreateAgent(ctx, maestro.AgentCreate{
		Name:         p.cfg.AgentName,
		DefinitionID: def.ID,
		Description:  agentDescription,
	})
	if err != nil {
		return "", err
	}

	p.agentID = agent.ID
	return agent.ID, nil
}

// analysisAgentPrompt is the definition content registered when the agent is
// created for the first time. It instructs the agent to emit the raw analysis
// document shape the normalizer expects.
const analysisAgentPrompt = `You are an educational code analysis agent. Analyze the submitted code
for the given language and the student's skill level.

Return a JSON object with these fields:
- code_issues: list of issues, each with line_number, column, severity
  (critical|high|medium|low|suggestion), category (syntax_error|style_issue|
  performance_issue|security_issue|maintainability_issue|best_practice),
  title, description, educational_explanation, suggested_fix,
  learning_resources, code_snippet, improved_snippet, impact_level,
  learning_objective, confidence_score
- metrics: loc, cyclomatic_complexity, maintainability_index,
  technical_debt_score, quality_score, test_coverage_estimate,
  code_duplication, documentation_score
- analysis_summary: code_strengths, improvement_areas, detected_skill_level,
  recommended_next_steps, ai_insights, overall_assessment
- learning_path: ordered study suggestions tailored to the skill level
- analysis_id, confidence_score, maestro_insights

Explanations must teach, not just point at problems. Match the depth of the
explanation to the student's skill level.`
