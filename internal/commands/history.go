package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/app"
	"github.com/mentorlabs/maestrobridge/internal/history"
)

// HistoryCommand returns the history command for listing past analyses.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past analyses recorded locally",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of records to show",
				Value:   20,
			},
		},
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			if application.History == nil {
				return fmt.Errorf("history is not enabled; set MAESTRO_BRIDGE_HISTORY_ENABLED=true")
			}

			records, err := application.History.List(c.Context, c.Int("limit"))
			if err != nil {
				return fmt.Errorf("listing history: %w", err)
			}

			total, err := application.History.Count(c.Context)
			if err != nil {
				return fmt.Errorf("counting history: %w", err)
			}

			renderHistory(os.Stdout, records, total)
			return nil
		},
	}
}

func renderHistory(out io.Writer, records []*history.Record, total int) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Name", "Language", "Issues", "Score", "Skill", "Source", "When"})

	for _, r := range records {
		source := "local"
		if r.MaestroPowered {
			source = color.CyanString("maestro")
		}

		score := fmt.Sprintf("%d", r.OverallScore)
		switch {
		case r.OverallScore >= 80:
			score = color.GreenString(score)
		case r.OverallScore < 50:
			score = color.RedString(score)
		}

		t.AppendRow(table.Row{
			r.Name,
			r.Language,
			r.IssueCount,
			score,
			r.SkillLevel,
			source,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	t.Render()

	if total > len(records) {
		fmt.Fprintf(out, "Showing %d of %d recorded analyses.\n", len(records), total)
	}
}
