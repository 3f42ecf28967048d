package heuristic

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
)

func analyze(t *testing.T, code, language, skill string, focusAreas ...string) *analyzer.ProviderResult {
	t.Helper()

	a := New(nil)
	result, err := a.Analyze(context.Background(), &analyzer.Request{
		Code:     code,
		Language: language,
		UserContext: analyzer.UserContext{
			SkillLevel: skill,
			FocusAreas: focusAreas,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Output)
	return result
}

func TestJavaScriptChecks(t *testing.T) {
	code := strings.Join([]string{
		"var x = 1;",
		"if (x == 1) {",
		"  console.log(x);",
		"}",
	}, "\n")

	result := analyze(t, code, "javascript", "beginner")
	issues := result.Output.CodeIssues
	require.Len(t, issues, 3)

	assert.Equal(t, 1, *issues[0].LineNumber)
	assert.Equal(t, "medium", *issues[0].Severity)
	assert.Equal(t, "best_practice", *issues[0].Category)
	assert.Contains(t, *issues[0].Title, "var")
	assert.Contains(t, *issues[0].ImprovedSnippet, "const ")

	assert.Equal(t, 2, *issues[1].LineNumber)
	assert.Contains(t, *issues[1].Title, "strict equality")
	assert.Equal(t, 0.95, *issues[1].ConfidenceScore)

	assert.Equal(t, 3, *issues[2].LineNumber)
	assert.Equal(t, "low", *issues[2].Severity)
	assert.Contains(t, *issues[2].Title, "console.log")
}

func TestPythonChecks(t *testing.T) {
	result := analyze(t, "print('hello')\n# print(commented)", "python", "beginner")
	issues := result.Output.CodeIssues
	require.Len(t, issues, 1)

	assert.Equal(t, 1, *issues[0].LineNumber)
	assert.Contains(t, *issues[0].SuggestedFix, "logging")
}

func TestCleanCodeHasNoIssues(t *testing.T) {
	result := analyze(t, "const x = 1;", "javascript", "beginner")
	assert.Empty(t, result.Output.CodeIssues)
}

func TestMetrics(t *testing.T) {
	code := "if (a) {\n  b();\n} else {\n  c();\n}"
	result := analyze(t, code, "javascript", "beginner")

	m := result.Output.Metrics
	require.NotNil(t, m)
	assert.Equal(t, 5, *m.LOC)
	// base 1 plus one "if" and one "else"
	assert.Equal(t, 3, *m.CyclomaticComplexity)
	assert.InDelta(t, 100-3*2-5*0.1, *m.MaintainabilityIndex, 0.001)
	assert.InDelta(t, *m.MaintainabilityIndex-3*3, *m.QualityScore, 0.001)
	assert.Equal(t, 0.0, *m.TechnicalDebtScore)
}

func TestComplexityCapped(t *testing.T) {
	code := strings.Repeat("if (x) {}\n", 30)
	result := analyze(t, code, "javascript", "beginner")

	m := result.Output.Metrics
	assert.Equal(t, 20, *m.CyclomaticComplexity)
	assert.Greater(t, *m.TechnicalDebtScore, 0.0)
}

func TestSummarySkillLevels(t *testing.T) {
	cases := map[string]string{
		"beginner":     "Practice basic syntax and conventions",
		"intermediate": "Explore advanced language features",
		"advanced":     "Optimize for performance and scalability",
	}

	for skill, expectedStep := range cases {
		result := analyze(t, "const x = 1;", "javascript", skill)
		summary := result.Output.AnalysisSummary
		require.NotNil(t, summary)
		assert.Equal(t, skill, *summary.DetectedSkillLevel)
		assert.Contains(t, summary.RecommendedNextSteps, expectedStep)
		assert.Contains(t, *summary.OverallAssessment, skill)
	}
}

func decodeStep(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()

	var step map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &step))
	return step
}

func TestLearningPath(t *testing.T) {
	t.Run("var usage adds a step", func(t *testing.T) {
		result := analyze(t, "var x = 1;", "javascript", "beginner")
		require.Len(t, result.Output.LearningPath, 1)

		step := decodeStep(t, result.Output.LearningPath[0])
		assert.Equal(t, "modern_javascript", step["skill_area"])
		assert.Equal(t, "beginner", step["current_level"])
		assert.Equal(t, "intermediate", step["target_level"])
		assert.Equal(t, "high", step["priority"])
		assert.Equal(t, "1-2 weeks", step["estimated_time"])
		require.Len(t, step["milestones"], 1)
	})

	t.Run("performance focus area adds a step", func(t *testing.T) {
		result := analyze(t, "const x = 1;", "javascript", "intermediate", "performance")
		require.Len(t, result.Output.LearningPath, 1)

		step := decodeStep(t, result.Output.LearningPath[0])
		assert.Equal(t, "performance_optimization", step["skill_area"])
		assert.Equal(t, "advanced", step["target_level"])
	})

	t.Run("empty by default", func(t *testing.T) {
		result := analyze(t, "const x = 1;", "javascript", "beginner")
		assert.Empty(t, result.Output.LearningPath)
	})
}

func TestNormalizesCleanly(t *testing.T) {
	result := analyze(t, "var x = 1;\nconsole.log(x);", "javascript", "beginner")

	normalized := analyzer.AssembleResult(result.Output, 5)
	require.Len(t, normalized.Issues, 2)
	assert.Equal(t, analyzer.SeverityWarning, normalized.Issues[0].Severity)
	assert.Equal(t, analyzer.CategoryBestPractice, normalized.Issues[0].Category)
	assert.Equal(t, analyzer.SeverityInfo, normalized.Issues[1].Severity)
	assert.NotEmpty(t, normalized.AnalysisID)
	assert.Equal(t, "local", result.Version)
}
