// Package commands defines the CLI commands exposed by the bridge binary.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/analyzer"
	"github.com/mentorlabs/maestrobridge/internal/app"
	"github.com/mentorlabs/maestrobridge/internal/history"
)

// AnalyzeCommand returns the analyze command, which reads one analysis
// request from stdin and writes one result envelope to stdout.
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Read an analysis request from stdin and write the result to stdout",
		Description: `Reads a single JSON analysis request from stdin, runs it against the
configured provider and prints the result envelope to stdout. The process
always exits 0; failures are reported inside the envelope.`,
		Action: func(c *cli.Context) error {
			application, err := app.FromContext(c)
			if err != nil {
				return err
			}

			return RunAnalyze(c.Context, application.Analyzer, application.History, os.Stdin, os.Stdout)
		},
	}
}

// RunAnalyze is the analyze entry point, split from the CLI action so tests
// can drive it with their own streams. It never returns a non-nil error for
// analysis failures; those become failure envelopes on the output stream.
func RunAnalyze(ctx context.Context, svc *analyzer.Service, hist *history.Service, in io.Reader, out io.Writer) error {
	req, err := analyzer.ParseRequest(in)
	if err != nil {
		return writeEnvelope(out, svc.FailureEnvelope(err.Error()))
	}

	env := svc.Analyze(ctx, req)

	if env.Success && env.Data != nil {
		hist.RecordAnalysis(ctx, req.Language, env.Data)
	}

	return writeEnvelope(out, env)
}

func writeEnvelope(out io.Writer, env analyzer.Envelope) error {
	if err := json.NewEncoder(out).Encode(env); err != nil {
		return fmt.Errorf("writing result envelope: %w", err)
	}
	return nil
}
