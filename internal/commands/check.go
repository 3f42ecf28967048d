package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/app"
	"github.com/mentorlabs/maestrobridge/internal/config"
	"github.com/mentorlabs/maestrobridge/internal/maestro"
	"github.com/mentorlabs/maestrobridge/internal/utils"
)

// CheckCommand returns the check command, which reports whether the Maestro
// platform is reachable with the configured credentials.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check Maestro availability and credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json or text",
				Value:   "json",
			},
		},
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			result := RunCheck(c.Context, application.Maestro, application.Config.Maestro)

			switch c.String("format") {
			case "text":
				renderCheckText(os.Stdout, result)
				return nil
			default:
				return writeCheckResult(os.Stdout, result)
			}
		},
	}
}

// RunCheck queries the platform and builds an availability report. It never
// fails: unreachable or unconfigured platforms produce a report with
// success=false. The organization id is masked before it leaves the process.
func RunCheck(ctx context.Context, client *maestro.Client, cfg config.MaestroConfig) maestro.CheckResult {
	result := maestro.CheckResult{
		Configured: cfg.Configured(),
		OrgID:      utils.MaskIdentifier(cfg.OrgID),
	}

	if !result.Configured {
		result.Error = "MAESTRO_ORG_ID and MAESTRO_API_TOKEN must be set"
		return result
	}

	agents, err := client.ListAgents(ctx)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	count := len(agents)
	result.Success = true
	result.AgentsCount = &count
	result.Version = client.Version(ctx)

	return result
}

func writeCheckResult(out io.Writer, result maestro.CheckResult) error {
	if err := json.NewEncoder(out).Encode(result); err != nil {
		return fmt.Errorf("writing check result: %w", err)
	}
	return nil
}

func renderCheckText(out io.Writer, result maestro.CheckResult) {
	status := color.GreenString("available")
	if !result.Success {
		status = color.RedString("unavailable")
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendRow(table.Row{"Status", status})
	t.AppendRow(table.Row{"Configured", result.Configured})
	if result.OrgID != "" {
		t.AppendRow(table.Row{"Organization", result.OrgID})
	}
	if result.Version != "" {
		t.AppendRow(table.Row{"Version", result.Version})
	}
	if result.AgentsCount != nil {
		t.AppendRow(table.Row{"Agents", *result.AgentsCount})
	}
	if result.Error != "" {
		t.AppendRow(table.Row{"Error", color.YellowString(result.Error)})
	}
	t.Render()
}
