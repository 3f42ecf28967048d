package analyzer

import (
	"encoding/json"
	"math"

	"github.com/mentorlabs/maestrobridge/internal/maestro"
)

// Defaults applied when the provider omits a field. Line and column default
// to the top of the file; the remaining values are deliberately middling so a
// sparse provider document still renders sensibly.
const (
	defaultLine            = 1
	defaultColumn          = 1
	defaultIssueTitle      = "Code Issue"
	defaultImpact          = "medium"
	defaultIssueConfidence = 0.8

	defaultMaintainability = 50
	defaultOverallScore    = 75
	defaultSkillLevel      = "intermediate"

	defaultResultConfidence = 0.85
	defaultDistributedNodes = 1
)

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// roundScore converts a raw score to its canonical integer form. Values are
// passed through unmodified apart from the rounding; range policing is the
// provider's business.
func roundScore(v float64) int {
	return int(math.Round(v))
}

// nonNil returns its argument, or an empty slice for nil. Canonical arrays
// are never null on the wire.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NormalizeIssue converts one raw issue into the canonical shape, filling
// defaults for every absent field.
func NormalizeIssue(raw maestro.RawIssue) Issue {
	issue := Issue{
		Line:         intOr(raw.LineNumber, defaultLine),
		Column:       intOr(raw.Column, defaultColumn),
		Severity:     MapSeverity(stringOr(raw.Severity, "")),
		Category:     MapCategory(stringOr(raw.Category, "")),
		Title:        stringOr(raw.Title, defaultIssueTitle),
		Description:  stringOr(raw.Description, ""),
		Explanation:  stringOr(raw.EducationalExplanation, ""),
		SuggestedFix: stringOr(raw.SuggestedFix, ""),
		Resources:    normalizeResources(raw.LearningResources),
		CodeSnippet: CodeSnippet{
			Original:  stringOr(raw.CodeSnippet, ""),
			Suggested: stringOr(raw.ImprovedSnippet, ""),
		},
		Impact:            stringOr(raw.ImpactLevel, defaultImpact),
		LearningObjective: stringOr(raw.LearningObjective, ""),
		Confidence:        floatOr(raw.ConfidenceScore, defaultIssueConfidence),
	}

	return issue
}

func normalizeResources(raw []maestro.RawResource) []Resource {
	resources := make([]Resource, 0, len(raw))
	for _, r := range raw {
		resources = append(resources, Resource{
			Title: stringOr(r.Title, ""),
			URL:   stringOr(r.URL, ""),
			Type:  stringOr(r.Type, "article"),
		})
	}
	return resources
}

// NormalizeMetrics converts raw metrics into the canonical integer scores.
// A nil metrics section yields the full set of defaults.
func NormalizeMetrics(raw *maestro.RawMetrics) Metrics {
	if raw == nil {
		raw = &maestro.RawMetrics{}
	}

	return Metrics{
		LinesOfCode:          intOr(raw.LOC, 0),
		Complexity:           intOr(raw.CyclomaticComplexity, 1),
		MaintainabilityIndex: roundScore(floatOr(raw.MaintainabilityIndex, defaultMaintainability)),
		TechnicalDebt:        roundScore(floatOr(raw.TechnicalDebtScore, 0)),
		OverallScore:         roundScore(floatOr(raw.QualityScore, defaultOverallScore)),
		TestCoverage:         roundScore(floatOr(raw.TestCoverageEstimate, 0)),
		CodeDuplication:      roundScore(floatOr(raw.CodeDuplication, 0)),
		DocumentationScore:   roundScore(floatOr(raw.DocumentationScore, defaultMaintainability)),
	}
}

// NormalizeAnalysis converts the raw narrative section. A nil section yields
// empty lists and the default skill level.
func NormalizeAnalysis(raw *maestro.RawAnalysisSummary) Analysis {
	if raw == nil {
		raw = &maestro.RawAnalysisSummary{}
	}

	return Analysis{
		Strengths:           nonNil(raw.CodeStrengths),
		AreasForImprovement: nonNil(raw.ImprovementAreas),
		SkillLevel:          stringOr(raw.DetectedSkillLevel, defaultSkillLevel),
		NextSteps:           nonNil(raw.RecommendedNextSteps),
		Insights:            nonNil(raw.AIInsights),
		OverallAssessment:   stringOr(raw.OverallAssessment, ""),
	}
}

// NormalizeLearningPath is an identity passthrough: entries are opaque,
// provider-defined documents and must reach the caller byte for byte. The
// result is never nil.
func NormalizeLearningPath(raw []json.RawMessage) []json.RawMessage {
	if raw == nil {
		return []json.RawMessage{}
	}
	return raw
}

// AssembleResult builds a complete canonical result from a raw provider
// document. It is total: any raw document, including the zero value,
// produces a well-formed result.
func AssembleResult(raw *maestro.AnalysisOutput, processingTimeMs int64) Result {
	if raw == nil {
		raw = &maestro.AnalysisOutput{}
	}

	issues := make([]Issue, 0, len(raw.CodeIssues))
	for _, ri := range raw.CodeIssues {
		issues = append(issues, NormalizeIssue(ri))
	}

	return Result{
		Issues:           issues,
		Metrics:          NormalizeMetrics(raw.Metrics),
		Analysis:         NormalizeAnalysis(raw.AnalysisSummary),
		LearningPath:     NormalizeLearningPath(raw.LearningPath),
		MaestroPowered:   true,
		ProcessingTimeMs: processingTimeMs,
		DistributedNodes: intOr(raw.NodesUsed, defaultDistributedNodes),
		ConfidenceScore:  floatOr(raw.ConfidenceScore, defaultResultConfidence),
		MaestroInsights:  nonNil(raw.MaestroInsights),
		AnalysisID:       stringOr(raw.AnalysisID, ""),
	}
}

// FallbackResult is the neutral result the caller falls back to when no
// provider result is available. It carries no issues and middling scores so
// the frontend renders a harmless placeholder.
func FallbackResult() Result {
	return Result{
		Issues: []Issue{},
		Metrics: Metrics{
			OverallScore:         defaultOverallScore,
			Complexity:           1,
			MaintainabilityIndex: defaultMaintainability,
			DocumentationScore:   defaultMaintainability,
		},
		Analysis: Analysis{
			Strengths:           []string{"Basic structure looks good"},
			AreasForImprovement: []string{"Maestro analysis unavailable"},
			SkillLevel:          defaultSkillLevel,
			NextSteps:           []string{"Try again when Maestro is available"},
			Insights:            []string{},
			OverallAssessment:   "Maestro analysis unavailable",
		},
		LearningPath:     []json.RawMessage{},
		MaestroPowered:   false,
		DistributedNodes: defaultDistributedNodes,
		ConfidenceScore:  defaultResultConfidence,
		MaestroInsights:  []string{},
	}
}
