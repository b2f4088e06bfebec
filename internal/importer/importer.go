package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/registry"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

// DefaultVersion is the version given to a template when the request names
// none.
const DefaultVersion = "1.0.0"

// Options configures an Importer.
type Options struct {
	// Registry receives imported templates. Required.
	Registry *registry.Registry

	// Logger receives progress and warnings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Analyzer scans the application.
	// Default: analyzer.New with Logger.
	Analyzer *analyzer.Analyzer

	// FrameworkDeps is the host framework's dependency set.
	// Default: the embedded framework manifest.
	FrameworkDeps map[string]string

	// Metrics records import counters and stage durations. Nil disables
	// metrics.
	Metrics *Metrics

	// TracerName names the OpenTelemetry tracer (default: "vhv/importer").
	TracerName string

	// Git is the git executable used for remote sources (default: "git").
	Git string

	// DefaultBranch is cloned when a remote request names no branch. Empty
	// clones the remote's default branch.
	DefaultBranch string
}

// Importer turns application source trees into registry templates.
type Importer struct {
	reg           *registry.Registry
	logger        *slog.Logger
	analyzer      *analyzer.Analyzer
	framework     map[string]string
	metrics       *Metrics
	tracer        trace.Tracer
	git           string
	defaultBranch string
}

// New returns an Importer for opts.
func New(opts Options) (*Importer, error) {
	if opts.Registry == nil {
		return nil, errors.Newf(errors.CategoryConfig, "importer: registry is required")
	}
	im := &Importer{
		reg:           opts.Registry,
		logger:        opts.Logger,
		analyzer:      opts.Analyzer,
		framework:     opts.FrameworkDeps,
		metrics:       opts.Metrics,
		git:           opts.Git,
		defaultBranch: opts.DefaultBranch,
	}
	if im.logger == nil {
		im.logger = slog.Default()
	}
	if im.analyzer == nil {
		im.analyzer = analyzer.New(analyzer.Options{Logger: im.logger})
	}
	if im.framework == nil {
		fw, err := deps.FrameworkDependencies("")
		if err != nil {
			return nil, err
		}
		im.framework = fw
	}
	if im.git == "" {
		im.git = "git"
	}
	im.tracer = newTracer(opts.TracerName)
	return im, nil
}

// Request describes one import.
type Request struct {
	// Source is a local directory or a git URL.
	Source string `json:"source"`

	// Name is the registry name of the new template.
	Name string `json:"name"`

	// Branch is cloned for remote sources.
	Branch string `json:"branch,omitempty"`

	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`

	// DryRun analyzes and merges without touching the registry.
	DryRun bool `json:"dryRun,omitempty"`

	// Progress, when set, is called synchronously as each stage starts.
	Progress func(Event) `json:"-"`
}

// Stage is one step of an import.
type Stage string

const (
	StageFetch       Stage = "fetch"
	StageAnalyze     Stage = "analyze"
	StageMerge       Stage = "merge"
	StageMaterialize Stage = "materialize"
)

// Event reports import progress.
type Event struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// Result is the outcome of a successful import.
type Result struct {
	// Config is the template config that was (or, on a dry run, would be)
	// written.
	Config templates.Config `json:"config"`

	// Analysis is the analyzer's view of the application.
	Analysis *analyzer.Result `json:"analysis"`

	// Additions are the app's packages the framework does not provide.
	Additions map[string]string `json:"additions"`

	// Critical are the additions that look app-specific (UI kits, forms,
	// charts and the like) and usually need porting by hand.
	Critical map[string]string `json:"critical"`

	// Path is the template directory; empty on a dry run.
	Path string `json:"path,omitempty"`

	DryRun bool `json:"dryRun"`
}

func (r *Request) emit(stage Stage, format string, args ...any) {
	if r.Progress != nil {
		r.Progress(Event{Stage: stage, Message: fmt.Sprintf(format, args...)})
	}
}

// Import analyzes req.Source, merges its dependencies with the framework's
// and, unless req.DryRun is set, materializes the template in the registry.
// Analysis, merge and materialization run strictly in that order; a failed
// materialization removes the partial template.
func (im *Importer) Import(ctx context.Context, req Request) (_ *Result, err error) {
	start := time.Now()
	ctx, span := im.tracer.Start(ctx, "import", trace.WithAttributes(
		attribute.String("vhv.template", req.Name),
		attribute.String("vhv.source", req.Source),
		attribute.Bool("vhv.dry_run", req.DryRun),
	))
	defer func() {
		im.metrics.observeImport(err, req.DryRun, time.Since(start))
		endSpan(span, err)
	}()

	if err := templates.ValidateName(req.Name); err != nil {
		return nil, err
	}
	if !req.DryRun && im.exists(req.Name) {
		return nil, errors.New("E202").
			WithDetail(req.Name).
			WithSuggestion("Choose another name or run 'vhv template remove " + req.Name + "'")
	}

	src := source{location: req.Source}
	err = im.stage(ctx, StageFetch, func(ctx context.Context) error {
		req.emit(StageFetch, "resolving %s", req.Source)
		var err error
		src, err = im.fetch(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer src.cleanup()

	var analysis *analyzer.Result
	err = im.stage(ctx, StageAnalyze, func(ctx context.Context) error {
		req.emit(StageAnalyze, "analyzing %s", src.root)
		var err error
		analysis, err = im.analyzer.Analyze(ctx, src.root)
		return err
	})
	if err != nil {
		return nil, err
	}
	im.metrics.observeAnalysis(analysis)
	span.SetAttributes(
		attribute.Int("vhv.components", len(analysis.Components)),
		attribute.Int("vhv.routes", len(analysis.Routes)),
	)

	var merged, additions map[string]string
	err = im.stage(ctx, StageMerge, func(context.Context) error {
		req.emit(StageMerge, "merging %d dependencies with %d framework packages", len(analysis.Dependencies), len(im.framework))
		merged = deps.MergeDependencies(analysis.Dependencies, im.framework)
		additions = deps.FilterFrameworkDependencies(analysis.Dependencies, deps.Names(im.framework))
		return nil
	})
	if err != nil {
		return nil, err
	}
	critical := deps.GetCriticalPackages(additions)
	if len(additions) > 0 {
		im.logger.Info("app-specific dependencies", "template", req.Name, "packages", deps.Names(additions))
	}
	if len(critical) > 0 {
		im.logger.Warn("dependencies that likely need manual porting", "template", req.Name, "packages", deps.Names(critical))
	}

	result := &Result{
		Config:    buildConfig(req, src, analysis, merged),
		Analysis:  analysis,
		Additions: additions,
		Critical:  critical,
		DryRun:    req.DryRun,
	}
	if req.DryRun {
		return result, nil
	}

	err = im.stage(ctx, StageMaterialize, func(context.Context) error {
		req.emit(StageMaterialize, "writing template %s", req.Name)
		tmpl, err := im.materialize(req.Name, result.Config, filepath.Join(analysis.Root, filepath.FromSlash(analysis.SourceDir)))
		if err != nil {
			return err
		}
		result.Config = tmpl.Config()
		result.Path = tmpl.Dir()
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.logger.Info("template imported",
		"template", req.Name,
		"path", result.Path,
		"components", len(analysis.Components),
		"routes", len(analysis.Routes),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// exists reports a collision for a loadable template or any leftover
// directory of the same name.
func (im *Importer) exists(name string) bool {
	if im.reg.HasTemplate(name) {
		return true
	}
	_, err := os.Stat(im.reg.Path(name))
	return err == nil
}

func (im *Importer) materialize(name string, cfg templates.Config, sourceDir string) (*templates.Template, error) {
	tmpl, err := templates.Create(im.reg.Path(name), cfg)
	if err != nil {
		return nil, err
	}
	if err := tmpl.CopySource(sourceDir); err != nil {
		if derr := tmpl.Destroy(); derr != nil {
			im.logger.Error("failed to remove partial template", "template", name, "error", derr)
		}
		return nil, err
	}
	return tmpl, nil
}

func (im *Importer) stage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	ctx, span := im.tracer.Start(ctx, "import."+string(stage))
	start := time.Now()
	err := fn(ctx)
	im.metrics.observeStage(stage, time.Since(start))
	endSpan(span, err)
	if err != nil {
		im.logger.Debug("import stage failed", "stage", stage, "error", err)
	}
	return err
}
