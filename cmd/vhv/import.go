package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/importer"
	"github.com/vhvplatform/react-framework-sub001/internal/report"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

type importFlags struct {
	name        string
	branch      string
	description string
	version     string
	dryRun      bool
	timeout     time.Duration
	format      string
}

func importCmd() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Import an application as a template",
		Long: `Import an existing front-end application into the template registry.

The source is a local directory or a git URL (https://, git@, or any
path ending in .git). Remote sources are shallow-cloned into a
temporary directory that is removed afterwards.

Examples:
  vhv import ./my-dashboard
  vhv import https://github.com/acme/shop.git --name shop --branch main
  vhv import ./my-dashboard --dry-run --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Template name (default: derived from the source)")
	cmd.Flags().StringVarP(&f.branch, "branch", "b", "", "Branch to clone for remote sources")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Template description")
	cmd.Flags().StringVar(&f.version, "template-version", importer.DefaultVersion, "Template version")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Analyze and print the config without writing a template")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort the import after this long (default: import.timeout from vhv.json)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "Dry-run output format (json, yaml)")

	return cmd
}

func runImport(source string, f importFlags) error {
	name := f.name
	if name == "" {
		name = deriveName(source)
	}
	if err := templates.ValidateName(name); err != nil {
		return err
	}

	reg := newRegistry()
	if !f.dryRun && reg.HasTemplate(name) {
		return errors.New("E202").
			WithDetail(name).
			WithSuggestion("Choose another --name or run 'vhv template remove " + name + "'")
	}

	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if f.dryRun && format == report.FormatText {
		format = report.FormatJSON
	}

	var promReg *prometheus.Registry
	if cfg.Metrics.Textfile != "" {
		promReg = prometheus.NewRegistry()
	}
	im, err := newImporterFor(promReg)
	if err != nil {
		return err
	}

	timeout := f.timeout
	if timeout == 0 {
		if timeout, err = cfg.ImportTimeout(); err != nil {
			return err
		}
	}
	ctx, cancel := signalContext()
	defer cancel()
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if !f.dryRun {
		printBanner()
		fmt.Printf("  Importing %s as '%s'...\n\n", source, name)
	}

	res, err := im.Import(ctx, importer.Request{
		Source:      source,
		Name:        name,
		Branch:      f.branch,
		Description: f.description,
		Version:     f.version,
		DryRun:      f.dryRun,
		Progress: func(e importer.Event) {
			if !f.dryRun {
				info("%s", e.Message)
			}
		},
	})
	if promReg != nil {
		if werr := prometheus.WriteToTextfile(cfg.Metrics.Textfile, promReg); werr != nil {
			logger.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Newf(errors.CategoryCLI, "import timed out after %s", timeout).Wrap(err)
		}
		return err
	}

	if f.dryRun {
		fmt.Fprintf(os.Stderr, "Note: %s\n", report.Notice)
		return report.Encode(os.Stdout, res.Config, format)
	}

	printImportSummary(res)
	return nil
}

// newImporterFor keeps a typed-nil *prometheus.Registry from reaching the
// Registerer interface.
func newImporterFor(reg *prometheus.Registry) (*importer.Importer, error) {
	if reg == nil {
		return newImporter(nil)
	}
	return newImporter(reg)
}

func printImportSummary(res *importer.Result) {
	tc := res.Config
	fmt.Println()
	success("Imported template '%s'", tc.Name)
	info("Path:        %s", res.Path)
	info("Components:  %d required, %d optional", len(tc.Components.Required), len(tc.Components.Optional))
	info("Routes:      %d", len(tc.Routes))
	if len(tc.Modules) > 0 {
		info("Modules:     %s", strings.Join(tc.Modules, ", "))
	}
	info("State:       %s", res.Analysis.StateManagement.Kind)
	info("Styles:      %s", res.Analysis.StyleSystem.Kind)

	if len(res.Additions) > 0 {
		fmt.Println()
		info("App-specific dependencies:")
		for _, n := range deps.Names(res.Additions) {
			info("  %s@%s", n, res.Additions[n])
		}
	}
	if len(res.Critical) > 0 {
		fmt.Println()
		warn("These packages are likely to need manual porting: %s", strings.Join(deps.Names(res.Critical), ", "))
	}
	if n := len(res.Analysis.Unanalyzable); n > 0 {
		warn("%d file(s) could not be analyzed; run with --verbose for details", n)
	}

	fmt.Println()
	info("Note: %s", report.Notice)
	fmt.Println()
}

var nameInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)

// deriveName turns the last segment of a path or URL into a template name.
func deriveName(source string) string {
	s := strings.TrimRight(source, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" || s == "." || s == ".." {
		if abs, err := filepath.Abs(source); err == nil {
			s = filepath.Base(abs)
		}
	}
	s = strings.TrimSuffix(s, ".git")
	s = nameInvalid.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-_")
	if len(s) > 63 {
		s = s[:63]
	}
	return s
}
