// Package analyzer turns raw Maestro analysis documents into the canonical
// result schema consumed by the frontend, and wraps provider calls in the
// stdout envelope protocol.
package analyzer

import (
	"encoding/json"
	"strings"
)

// Severity is the canonical severity vocabulary.
type Severity string

// Severity levels, ordered from most to least severe.
const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeverityInfo       Severity = "info"
	SeveritySuggestion Severity = "suggestion"
)

// Category is the canonical issue category vocabulary.
type Category string

// Issue categories.
const (
	CategorySyntax          Category = "syntax"
	CategoryStyle           Category = "style"
	CategoryPerformance     Category = "performance"
	CategorySecurity        Category = "security"
	CategoryMaintainability Category = "maintainability"
	CategoryBestPractice    Category = "best-practice"
)

// MapSeverity converts a raw provider severity string to the canonical
// vocabulary. Unknown values map to info.
func MapSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "high":
		return SeverityError
	case "medium":
		return SeverityWarning
	case "low":
		return SeverityInfo
	case "suggestion":
		return SeveritySuggestion
	default:
		return SeverityInfo
	}
}

// MapCategory converts a raw provider category string to the canonical
// vocabulary. Unknown values map to maintainability.
func MapCategory(c string) Category {
	switch strings.ToLower(strings.TrimSpace(c)) {
	case "syntax_error":
		return CategorySyntax
	case "style_issue":
		return CategoryStyle
	case "performance_issue":
		return CategoryPerformance
	case "security_issue":
		return CategorySecurity
	case "maintainability_issue":
		return CategoryMaintainability
	case "best_practice":
		return CategoryBestPractice
	default:
		return CategoryMaintainability
	}
}

// Resource is a learning resource attached to an issue.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// CodeSnippet pairs the offending code with a suggested replacement.
type CodeSnippet struct {
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
}

// Issue is a single normalized finding.
type Issue struct {
	Line              int         `json:"line"`
	Column            int         `json:"column"`
	Severity          Severity    `json:"severity"`
	Category          Category    `json:"category"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Explanation       string      `json:"explanation"`
	SuggestedFix      string      `json:"suggestedFix"`
	Resources         []Resource  `json:"resources"`
	CodeSnippet       CodeSnippet `json:"codeSnippet"`
	Impact            string      `json:"impact"`
	LearningObjective string      `json:"learningObjective"`
	Confidence        float64     `json:"confidence"`
}

// Metrics are the normalized code metrics. Scores are rounded to integers but
// otherwise carried through as the provider reported them.
type Metrics struct {
	LinesOfCode          int `json:"linesOfCode"`
	Complexity           int `json:"complexity"`
	MaintainabilityIndex int `json:"maintainabilityIndex"`
	TechnicalDebt        int `json:"technicalDebt"`
	OverallScore         int `json:"overallScore"`
	TestCoverage         int `json:"testCoverage"`
	CodeDuplication      int `json:"codeDuplication"`
	DocumentationScore   int `json:"documentationScore"`
}

// Analysis is the normalized narrative section of a result.
type Analysis struct {
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	SkillLevel          string   `json:"skillLevel"`
	NextSteps           []string `json:"nextSteps"`
	Insights            []string `json:"insights"`
	OverallAssessment   string   `json:"overallAssessment"`
}

// Result is the canonical analysis document returned to the caller.
type Result struct {
	Issues           []Issue           `json:"issues"`
	Metrics          Metrics           `json:"metrics"`
	Analysis         Analysis          `json:"analysis"`
	LearningPath     []json.RawMessage `json:"learningPath"`
	MaestroPowered   bool              `json:"maestroPowered"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
	DistributedNodes int               `json:"distributedNodes"`
	ConfidenceScore  float64           `json:"confidenceScore"`
	MaestroInsights  []string          `json:"maestroInsights"`
	AnalysisID       string            `json:"analysisId,omitempty"`
}
