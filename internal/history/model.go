// Package history keeps a local record of past analyses so students can see
// how their scores develop over time. It is entirely optional and never on
// the critical path of an analysis.
package history

import (
	"time"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/ulid"
	"github.com/mentorlabs/maestrobridge/internal/utils"
)

// Record is one stored analysis summary. The full result document is not
// kept, only what the history listing shows.
type Record struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Language       string    `json:"language"`
	IssueCount     int       `json:"issue_count"`
	OverallScore   int       `json:"overall_score"`
	SkillLevel     string    `json:"skill_level"`
	MaestroPowered bool      `json:"maestro_powered"`
	AnalysisID     string    `json:"analysis_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewRecord builds a record from a finished analysis.
func NewRecord(language string, result *analyzer.Result) *Record {
	return &Record{
		ID:             ulid.AnalysisID(),
		Name:           utils.GenerateSessionName(),
		Language:       language,
		IssueCount:     len(result.Issues),
		OverallScore:   result.Metrics.OverallScore,
		SkillLevel:     result.Analysis.SkillLevel,
		MaestroPowered: result.MaestroPowered,
		AnalysisID:     result.AnalysisID,
		CreatedAt:      time.Now().UTC(),
	}
}
