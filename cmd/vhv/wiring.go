package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/importer"
	"github.com/vhvplatform/react-framework-sub001/internal/registry"
)

func newRegistry() *registry.Registry {
	return registry.New(cfg.TemplatesPath(), registry.WithLogger(logger))
}

// newAnalyzer builds the analyzer from the analysis settings. A positive
// cache size memoizes per-file facts, which pays off in the long-running
// server.
func newAnalyzer() (*analyzer.Analyzer, error) {
	opts := analyzer.Options{
		Logger:      logger,
		Workers:     cfg.Analysis.Workers,
		MaxFileSize: cfg.Analysis.MaxFileSize,
	}
	if cfg.Analysis.CacheSize > 0 {
		ext, err := analyzer.NewCachingExtractor(analyzer.NewTextExtractor(), cfg.Analysis.CacheSize)
		if err != nil {
			return nil, err
		}
		opts.Extractor = ext
	}
	return analyzer.New(opts), nil
}

func frameworkDeps() (map[string]string, error) {
	return deps.FrameworkDependencies(cfg.FrameworkManifestPath())
}

// newImporter wires an importer whose metrics register with reg; a nil reg
// disables metrics.
func newImporter(reg prometheus.Registerer) (*importer.Importer, error) {
	a, err := newAnalyzer()
	if err != nil {
		return nil, err
	}
	fw, err := frameworkDeps()
	if err != nil {
		return nil, err
	}
	opts := importer.Options{
		Registry:      newRegistry(),
		Logger:        logger,
		Analyzer:      a,
		FrameworkDeps: fw,
		DefaultBranch: cfg.Import.DefaultBranch,
	}
	if reg != nil {
		opts.Metrics = importer.NewMetrics(importer.WithRegistry(reg))
	}
	return importer.New(opts)
}
