package analyzer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// DefaultMaxFileSize is the largest file the analyzer reads.
const DefaultMaxFileSize int64 = 1 << 20

// Options configures an Analyzer.
type Options struct {
	// Logger receives per-file warnings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Workers bounds the number of files scanned in parallel.
	// Default: GOMAXPROCS.
	Workers int

	// MaxFileSize skips larger files as unanalyzable.
	// Default: DefaultMaxFileSize.
	MaxFileSize int64

	// Extractor recovers per-file facts.
	// Default: NewTextExtractor().
	Extractor Extractor
}

// Analyzer scans application source trees. It holds no per-run state and may
// be shared.
type Analyzer struct {
	logger      *slog.Logger
	workers     int
	maxFileSize int64
	extractor   Extractor
}

// New returns an Analyzer for opts.
func New(opts Options) *Analyzer {
	a := &Analyzer{
		logger:      opts.Logger,
		workers:     opts.Workers,
		maxFileSize: opts.MaxFileSize,
		extractor:   opts.Extractor,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.workers <= 0 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	if a.maxFileSize <= 0 {
		a.maxFileSize = DefaultMaxFileSize
	}
	if a.extractor == nil {
		a.extractor = NewTextExtractor()
	}
	return a
}

// Analyze runs New(opts).Analyze(ctx, root).
func Analyze(ctx context.Context, root string, opts Options) (*Result, error) {
	return New(opts).Analyze(ctx, root)
}

type scannedFile struct {
	path    string
	facts   *FileFacts
	skipped bool
}

var errTooLarge = stderrors.New("file exceeds size limit")

// Analyze scans the application at root. It fails when root is not a
// directory or has no source directory; individual files that cannot be
// analyzed are logged, recorded in Result.Unanalyzable and skipped.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.New("E205").WithPath(root).Wrap(err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, errors.New("E205").WithPath(root).WithDetail("not a directory")
	}

	sourceDir, err := findSourceDir(absRoot)
	if err != nil {
		return nil, err
	}

	inv, err := walkSources(absRoot, sourceDir, loadIgnore(absRoot))
	if err != nil {
		return nil, err
	}
	sort.Strings(inv.sources)
	sort.Strings(inv.styles)

	result := &Result{
		Root:         absRoot,
		SourceDir:    sourceDir,
		Unanalyzable: []string{},
	}

	manifest, err := deps.ExtractDependencies(absRoot)
	if err != nil {
		a.logger.Warn("skipping dependency manifest", "path", deps.ManifestFileName, "error", err)
		result.Unanalyzable = append(result.Unanalyzable, deps.ManifestFileName)
		manifest = map[string]string{}
	}
	result.Dependencies = manifest

	scanned, err := a.scan(ctx, absRoot, inv.sources)
	if err != nil {
		return nil, err
	}

	var files []scannedFile
	for _, f := range scanned {
		if f.skipped {
			result.Unanalyzable = append(result.Unanalyzable, f.path)
			continue
		}
		files = append(files, f)
	}
	sort.Strings(result.Unanalyzable)

	result.Components = buildComponents(files)
	result.Routes = buildRoutes(result, files)
	result.StateManagement = classifyState(files)
	result.StyleSystem = classifyStyle(absRoot, inv, files)
	result.APIEndpoints = collectEndpoints(files)

	a.logger.Debug("analysis complete",
		"root", absRoot,
		"source_dir", sourceDir,
		"components", len(result.Components),
		"routes", len(result.Routes),
		"unanalyzable", len(result.Unanalyzable),
	)
	return result, nil
}

// scan extracts every file with at most a.workers in flight. Output order
// matches input order.
func (a *Analyzer) scan(ctx context.Context, root string, paths []string) ([]scannedFile, error) {
	out := make([]scannedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			facts, err := a.scanFile(root, rel)
			if err != nil {
				a.logger.Warn("skipping unanalyzable file", "path", rel, "error", err)
				out[i] = scannedFile{path: rel, skipped: true}
				return nil
			}
			out[i] = scannedFile{path: rel, facts: facts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analyzer) scanFile(root, rel string) (*FileFacts, error) {
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.Size() > a.maxFileSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", errTooLarge, info.Size(), a.maxFileSize)
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	return a.extractor.Extract(rel, src)
}

func buildComponents(files []scannedFile) []ComponentInfo {
	components := []ComponentInfo{}
	for _, f := range files {
		if !f.facts.IsComponent {
			continue
		}
		imports := make([]ImportEdge, len(f.facts.Imports))
		for i, edge := range f.facts.Imports {
			edge.Names = slices.Clone(edge.Names)
			imports[i] = edge
		}
		components = append(components, ComponentInfo{
			Name:       f.facts.Name,
			FilePath:   f.path,
			Exports:    nonNil(slices.Clone(f.facts.Exports)),
			Imports:    imports,
			HasState:   f.facts.HasState,
			HasEffects: f.facts.HasEffects,
			Props:      slices.Clone(f.facts.Props),
		})
	}
	sort.Slice(components, func(i, j int) bool { return components[i].FilePath < components[j].FilePath })
	return components
}

// buildRoutes resolves declared routes against the component set and adds
// file-based routes when the app uses them. Duplicates collapse; output is
// sorted by path, then component.
func buildRoutes(r *Result, files []scannedFile) []RouteInfo {
	byName := make(map[string][]string)
	byPath := make(map[string]string, len(r.Components))
	for _, c := range r.Components {
		byName[c.Name] = append(byName[c.Name], c.FilePath)
		byPath[c.FilePath] = c.Name
	}

	var routes []RouteInfo
	for _, f := range files {
		for _, decl := range f.facts.Routes {
			routes = append(routes, resolveRoute(r, f, decl, byName))
		}
	}

	_, usesNext := r.Dependencies["next"]
	if usesNext || len(routes) == 0 {
		sources := make([]string, 0, len(files))
		for _, f := range files {
			sources = append(sources, f.path)
		}
		routes = append(routes, fileRoutes(r.SourceDir, sources, byPath)...)
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Component < routes[j].Component
	})

	out := []RouteInfo{}
	for i, route := range routes {
		if i > 0 && route.Path == routes[i-1].Path && route.Component == routes[i-1].Component {
			continue
		}
		out = append(out, route)
	}
	return out
}

func resolveRoute(r *Result, f scannedFile, decl RouteDecl, byName map[string][]string) RouteInfo {
	route := RouteInfo{
		Path:      decl.Path,
		Component: decl.Component,
		Protected: decl.Protected,
		Layout:    decl.Layout,
	}

	var target string
	if decl.Source != "" {
		target, _ = r.ResolveImport(f.path, decl.Source)
	} else {
		for _, edge := range f.facts.Imports {
			if slices.Contains(edge.Names, decl.Component) {
				target, _ = r.ResolveImport(f.path, edge.Source)
				break
			}
		}
		if target == "" && slices.Contains(f.facts.Exports, decl.Component) {
			target = f.path
		}
		if target == "" {
			if candidates := byName[decl.Component]; len(candidates) > 0 {
				target = candidates[0]
			}
		}
	}

	if c, ok := r.Component(target); ok {
		route.ComponentPath = c.FilePath
		if route.Component == "" {
			route.Component = c.Name
		}
	} else if route.Component == "" {
		route.Component = nameFromPath(decl.Source)
	}
	return route
}

func collectEndpoints(files []scannedFile) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, f := range files {
		for _, e := range f.facts.Endpoints {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
