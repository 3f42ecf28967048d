package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/app"
	"github.com/mentorlabs/maestrobridge/internal/commands"
)

// Version information - populated at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "maestrobridge",
		Usage: "Bridge between the AI code mentor and the Maestro analysis platform",
		Description: "Maestrobridge reads a JSON analysis request from stdin, runs it through\n" +
			"the Maestro distributed agent platform (or a local heuristic fallback) and\n" +
			"writes a normalized result envelope to stdout.\n\n" +
			"When run without subcommands it performs an analysis (default action).",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if application, ok := c.App.Metadata["app"].(*app.App); ok {
				return application.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.AnalyzeCommand(),
			commands.CheckCommand(),
			commands.HistoryCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is analyze, matching how the frontend invokes
			// the binary with only a stdin payload.
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			return commands.RunAnalyze(c.Context, application.Analyzer, application.History, os.Stdin, os.Stdout)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		// Callers read stdout as JSON and never see the exit code, so even
		// initialization errors end in a failure envelope and a zero exit.
		fmt.Fprintf(os.Stderr, "maestrobridge: %v\n", err)
		_ = json.NewEncoder(os.Stdout).Encode(analyzer.NewFailureEnvelope(err.Error()))
	}
}
