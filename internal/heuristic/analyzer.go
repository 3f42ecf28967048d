// Package heuristic implements a local analysis provider that runs a small
// set of pattern checks. It exists so the bridge produces useful output when
// the Maestro platform is unreachable or deliberately not configured.
package heuristic

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/loggy"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
	"github.com/mentorlabs/maestrobridge/internal/ulid"
)

// complexityPattern matches branching keywords across the supported
// languages. Each hit adds one to the complexity estimate.
var complexityPattern = regexp.MustCompile(`\b(if|elif|else|for|while|try|except|case)\b|&&|\|\|`)

// Analyzer is a Provider that analyzes code locally.
type Analyzer struct {
	logger *loggy.Logger
}

// New creates a local analyzer.
func New(logger *loggy.Logger) *Analyzer {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	return &Analyzer{logger: logger}
}

// Analyze produces a raw analysis document from local heuristics. It never
// fails: the document always goes through the same normalization as a
// platform result.
func (a *Analyzer) Analyze(_ context.Context, req *analyzer.Request) (*analyzer.ProviderResult, error) {
	a.logger.Debug("running local analysis", "language", req.Language)

	issues := a.findIssues(req.Code, req.Language)
	metrics := a.calculateMetrics(req.Code)
	summary := a.summarize(req.Code, req.UserContext.SkillLevel)
	path := a.learningPath(req.Code, req.Language, req.UserContext)

	analysisID := ulid.AnalysisID()
	nodes := 1
	confidence := 0.7

	return &analyzer.ProviderResult{
		Output: &maestro.AnalysisOutput{
			CodeIssues:      issues,
			Metrics:         metrics,
			AnalysisSummary: summary,
			LearningPath:    path,
			AnalysisID:      &analysisID,
			NodesUsed:       &nodes,
			ConfidenceScore: &confidence,
			MaestroInsights: []string{"Local heuristic analysis; connect Maestro for distributed results"},
		},
		Version: "local",
		AgentID: "local-heuristic",
	}, nil
}

func (a *Analyzer) findIssues(code, language string) []maestro.RawIssue {
	issues := []maestro.RawIssue{}

	for i, rawLine := range strings.Split(code, "\n") {
		line := strings.TrimSpace(rawLine)
		lineNo := i + 1
		if line == "" {
			continue
		}

		switch language {
		case "javascript", "typescript":
			if strings.Contains(line, "var ") && !strings.HasPrefix(line, "//") {
				issues = append(issues, issue(lineNo, strings.Index(line, "var ")+1,
					"medium", "best_practice",
					"Avoid 'var' - use 'let' or 'const'",
					"Modern JavaScript prefers let/const over var for better scoping",
					"The 'var' keyword has function scoping which can lead to unexpected behavior. Use 'let' for variables that change and 'const' for constants.",
					"Replace 'var' with 'const' or 'let'",
					line, strings.Replace(line, "var ", "const ", 1),
					"Master modern JavaScript variable declarations", 0.92,
					resource("MDN: let vs var", "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Statements/let", "documentation"),
				))
			}

			if strings.Contains(line, " == ") && !strings.Contains(line, "=== ") && !strings.Contains(line, "!=") {
				issues = append(issues, issue(lineNo, strings.Index(line, " == ")+1,
					"medium", "best_practice",
					"Use strict equality (===) instead of ==",
					"Strict equality avoids type coercion issues",
					"The == operator performs type conversion which can lead to unexpected results. Use === for predictable comparisons.",
					"Replace == with ===",
					line, strings.Replace(line, " == ", " === ", 1),
					"Understand JavaScript type coercion", 0.95,
					resource("JavaScript Equality Comparison", "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Equality_comparisons_and_sameness", "documentation"),
				))
			}

			if strings.Contains(line, "console.log(") {
				issues = append(issues, issue(lineNo, strings.Index(line, "console.log(")+1,
					"low", "best_practice",
					"Remove console.log from production code",
					"Console statements should not be in production code",
					"Console.log statements can impact performance and expose sensitive information in production environments.",
					"Remove console.log or use a proper logging library",
					line, "// "+line,
					"Learn about proper logging practices", 0.88,
				))
			}

		case "python":
			if strings.Contains(line, "print(") && !strings.HasPrefix(line, "#") {
				issues = append(issues, issue(lineNo, strings.Index(line, "print(")+1,
					"low", "best_practice",
					"Consider using logging instead of print",
					"Use logging module for better output control",
					"The logging module provides better control over output levels and destinations compared to print statements.",
					"Replace print with logging.info() or similar",
					line, strings.Replace(line, "print(", "logging.info(", 1),
					"Master Python logging practices", 0.85,
					resource("Python Logging Tutorial", "https://docs.python.org/3/howto/logging.html", "tutorial"),
				))
			}
		}
	}

	return issues
}

func (a *Analyzer) calculateMetrics(code string) *maestro.RawMetrics {
	loc := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			loc++
		}
	}

	complexity := 1 + len(complexityPattern.FindAllString(code, -1))

	maintainability := clamp(100 - float64(complexity)*2 - float64(loc)*0.1)
	quality := clamp(maintainability - float64(complexity)*3)

	cappedComplexity := complexity
	if cappedComplexity > 20 {
		cappedComplexity = 20
	}
	debt := float64(complexity - 10)
	if debt < 0 {
		debt = 0
	}

	return &maestro.RawMetrics{
		LOC:                  &loc,
		CyclomaticComplexity: &cappedComplexity,
		MaintainabilityIndex: &maintainability,
		TechnicalDebtScore:   &debt,
		QualityScore:         &quality,
	}
}

func (a *Analyzer) summarize(code, skillLevel string) *maestro.RawAnalysisSummary {
	strengths := []string{}
	improvements := []string{}

	if len(strings.Split(code, "\n")) < 50 {
		strengths = append(strengths, "Concise and focused code")
	}
	if strings.Contains(code, "function") || strings.Contains(code, "def ") {
		strengths = append(strengths, "Good use of functions for code organization")
	}
	if strings.Contains(code, "var ") {
		improvements = append(improvements, "Modernize variable declarations")
	}
	if strings.Contains(code, "console.log") || strings.Contains(code, "print(") {
		improvements = append(improvements, "Implement proper logging practices")
	}

	var nextSteps []string
	switch skillLevel {
	case "beginner":
		nextSteps = []string{
			"Practice basic syntax and conventions",
			"Learn about code organization principles",
			"Study error handling patterns",
		}
	case "intermediate":
		nextSteps = []string{
			"Explore advanced language features",
			"Learn design patterns and architecture",
			"Implement comprehensive testing",
		}
	default:
		nextSteps = []string{
			"Optimize for performance and scalability",
			"Mentor junior developers",
			"Contribute to open source projects",
		}
	}

	assessment := fmt.Sprintf("Code shows %s-level understanding with room for growth", skillLevel)

	return &maestro.RawAnalysisSummary{
		CodeStrengths:        strengths,
		ImprovementAreas:     improvements,
		DetectedSkillLevel:   &skillLevel,
		RecommendedNextSteps: nextSteps,
		AIInsights: []string{
			"Analysis performed with local heuristics",
			"Recommendations personalized for your skill level",
		},
		OverallAssessment: &assessment,
	}
}

// learningStep mirrors the entry shape the platform agents emit. The bridge
// treats learning path entries as opaque JSON, so the local provider encodes
// its steps the same way.
type learningStep struct {
	SkillArea     string      `json:"skill_area"`
	CurrentLevel  string      `json:"current_level"`
	TargetLevel   string      `json:"target_level"`
	Priority      string      `json:"priority"`
	EstimatedTime string      `json:"estimated_time"`
	Description   string      `json:"description"`
	Milestones    []milestone `json:"milestones"`
}

type milestone struct {
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	Resources []string `json:"resources"`
}

func (a *Analyzer) learningPath(code, language string, user analyzer.UserContext) []json.RawMessage {
	steps := []learningStep{}

	if strings.Contains(code, "var ") {
		target := "advanced"
		if user.SkillLevel == "beginner" {
			target = "intermediate"
		}
		steps = append(steps, learningStep{
			SkillArea:     "modern_" + language,
			CurrentLevel:  user.SkillLevel,
			TargetLevel:   target,
			Priority:      "high",
			EstimatedTime: "1-2 weeks",
			Description:   fmt.Sprintf("Master modern %s features and best practices", language),
			Milestones: []milestone{{
				Title:     "Replace var with let/const",
				Completed: false,
				Resources: []string{fmt.Sprintf("https://example.com/%s-modern-features", language)},
			}},
		})
	}

	for _, area := range user.FocusAreas {
		if strings.EqualFold(area, "performance") {
			steps = append(steps, learningStep{
				SkillArea:     "performance_optimization",
				CurrentLevel:  user.SkillLevel,
				TargetLevel:   "advanced",
				Priority:      "medium",
				EstimatedTime: "3-4 weeks",
				Description:   "Learn to write high-performance code",
				Milestones: []milestone{{
					Title:     "Profile a hot path and remove one bottleneck",
					Completed: false,
					Resources: []string{"https://example.com/performance-guide"},
				}},
			})
			break
		}
	}

	path := make([]json.RawMessage, 0, len(steps))
	for _, s := range steps {
		encoded, err := json.Marshal(s)
		if err != nil {
			continue
		}
		path = append(path, json.RawMessage(encoded))
	}
	return path
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func issue(line, column int, severity, category, title, description, explanation, fix, snippet, improved, objective string, confidence float64, resources ...maestro.RawResource) maestro.RawIssue {
	return maestro.RawIssue{
		LineNumber:             &line,
		Column:                 &column,
		Severity:               &severity,
		Category:               &category,
		Title:                  &title,
		Description:            &description,
		EducationalExplanation: &explanation,
		SuggestedFix:           &fix,
		LearningResources:      resources,
		CodeSnippet:            &snippet,
		ImprovedSnippet:        &improved,
		LearningObjective:      &objective,
		ConfidenceScore:        &confidence,
	}
}

func resource(title, url, typ string) maestro.RawResource {
	return maestro.RawResource{Title: &title, URL: &url, Type: &typ}
}
