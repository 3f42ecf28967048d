package maestro

import (
	"encoding/json"
	"fmt"
)

// Agent represents an agent registered with the Maestro platform.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DefinitionID string `json:"definition_id,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AgentDefinitionCreate is the request body for registering a new agent
// definition.
type AgentDefinitionCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
	Language    string `json:"language"`
}

// AgentDefinition is the platform's record of a registered definition.
type AgentDefinition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AgentCreate is the request body for instantiating an agent from a
// definition.
type AgentCreate struct {
	Name         string `json:"name"`
	DefinitionID string `json:"definition_id"`
	Description  string `json:"description,omitempty"`
}

// ExecutionRequest is the payload sent to an agent execution.
type ExecutionRequest struct {
	Variables         map[string]interface{} `json:"variables"`
	MaxProcessingTime int                    `json:"max_processing_time,omitempty"`
}

// ExecutionResult is the response from a completed agent execution.
type ExecutionResult struct {
	Output        *AnalysisOutput `json:"output"`
	NodesUsed     *int            `json:"nodes_used,omitempty"`
	ExecutionTime *float64        `json:"execution_time,omitempty"`
	Status        string          `json:"status,omitempty"`
}

// VersionInfo describes the platform version reported by the API.
type VersionInfo struct {
	Version string `json:"version"`
}

// CheckResult is the availability report produced by the check entry point.
// AgentsCount is a pointer so an unreachable agent listing is distinguishable
// from an empty one.
type CheckResult struct {
	Success     bool   `json:"success"`
	Version     string `json:"version,omitempty"`
	OrgID       string `json:"org_id,omitempty"`
	Configured  bool   `json:"configured"`
	AgentsCount *int   `json:"agents_count,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AnalysisOutput is the raw analysis document produced by the agent. All
// optional fields are pointers so that an absent value is distinguishable
// from a zero value when the document is normalized. Learning path entries
// are opaque to this process and kept as raw JSON.
type AnalysisOutput struct {
	CodeIssues      []RawIssue          `json:"code_issues"`
	Metrics         *RawMetrics         `json:"metrics"`
	AnalysisSummary *RawAnalysisSummary `json:"analysis_summary"`
	LearningPath    []json.RawMessage   `json:"learning_path"`
	AnalysisID      *string             `json:"analysis_id"`
	NodesUsed       *int                `json:"nodes_used"`
	ConfidenceScore *float64            `json:"confidence_score"`
	MaestroInsights []string            `json:"maestro_insights"`
}

// RawIssue is a single issue as the agent reports it, before any field is
// defaulted or vocabulary is mapped.
type RawIssue struct {
	LineNumber             *int          `json:"line_number"`
	Column                 *int          `json:"column"`
	Severity               *string       `json:"severity"`
	Category               *string       `json:"category"`
	Title                  *string       `json:"title"`
	Description            *string       `json:"description"`
	EducationalExplanation *string       `json:"educational_explanation"`
	SuggestedFix           *string       `json:"suggested_fix"`
	LearningResources      []RawResource `json:"learning_resources"`
	CodeSnippet            *string       `json:"code_snippet"`
	ImprovedSnippet        *string       `json:"improved_snippet"`
	ImpactLevel            *string       `json:"impact_level"`
	LearningObjective      *string       `json:"learning_objective"`
	ConfidenceScore        *float64      `json:"confidence_score"`
}

// RawResource is a learning resource attached to an issue.
type RawResource struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
	Type  *string `json:"type"`
}

// RawMetrics are the code metrics as the agent reports them.
type RawMetrics struct {
	LOC                  *int     `json:"loc"`
	CyclomaticComplexity *int     `json:"cyclomatic_complexity"`
	MaintainabilityIndex *float64 `json:"maintainability_index"`
	TechnicalDebtScore   *float64 `json:"technical_debt_score"`
	QualityScore         *float64 `json:"quality_score"`
	TestCoverageEstimate *float64 `json:"test_coverage_estimate"`
	CodeDuplication      *float64 `json:"code_duplication"`
	DocumentationScore   *float64 `json:"documentation_score"`
}

// RawAnalysisSummary is the narrative section of the agent's output.
type RawAnalysisSummary struct {
	CodeStrengths        []string `json:"code_strengths"`
	ImprovementAreas     []string `json:"improvement_areas"`
	DetectedSkillLevel   *string  `json:"detected_skill_level"`
	RecommendedNextSteps []string `json:"recommended_next_steps"`
	AIInsights           []string `json:"ai_insights"`
	OverallAssessment    *string  `json:"overall_assessment"`
}

// APIError represents an error response from the Maestro API.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("maestro API error (%d %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRetryable reports whether a request that produced this error is worth
// retrying.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
