package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/report"
)

// analyzeOutput is the machine-readable form of vhv analyze.
type analyzeOutput struct {
	Analysis  *analyzer.Result  `json:"analysis"`
	Additions map[string]string `json:"additions"`
	Critical  map[string]string `json:"critical"`
}

func analyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Analyze an application without importing it",
		Long: `Analyze an application's source tree and print what an import would
recover: components, routes, state management, styling, API endpoints
and the dependencies the framework does not already provide.

Detection is best-effort static analysis; nothing is executed.

Examples:
  vhv analyze ./my-dashboard
  vhv analyze ./my-dashboard --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")

	return cmd
}

func runAnalyze(dir, formatName string) error {
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	a, err := newAnalyzer()
	if err != nil {
		return err
	}
	fw, err := frameworkDeps()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := a.Analyze(ctx, dir)
	if err != nil {
		return err
	}
	additions := deps.FilterFrameworkDependencies(res.Dependencies, deps.Names(fw))

	if format == report.FormatText {
		return report.Summary(os.Stdout, res, additions)
	}
	fmt.Fprintf(os.Stderr, "Note: %s\n", report.Notice)
	return report.Encode(os.Stdout, analyzeOutput{
		Analysis:  res,
		Additions: additions,
		Critical:  deps.GetCriticalPackages(additions),
	}, format)
}
