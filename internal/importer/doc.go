// Package importer turns an existing front-end application into a registry
// template.
//
// An import runs four stages strictly in order:
//
//  1. fetch: use a local directory as is, or shallow-clone a git URL into a
//     temporary directory that is removed afterwards
//  2. analyze: run the source analyzer over the tree
//  3. merge: reconcile the app's dependencies with the framework's
//  4. materialize: write template.config.json and copy the source directory
//     into the template's src/
//
// A dry run stops after the merge and returns the config that would have
// been written. A failed materialization removes the partial template.
//
// # Usage
//
//	im, err := importer.New(importer.Options{
//	    Registry: registry.New(cfg.TemplatesPath()),
//	    Logger:   logger,
//	    Metrics:  importer.NewMetrics(),
//	})
//	res, err := im.Import(ctx, importer.Request{
//	    Source: "https://github.com/acme/dashboard.git",
//	    Name:   "dashboard",
//	})
//
// Every stage gets an OpenTelemetry span below an "import" span; the spans are
// no-ops unless a tracer provider is installed.
package importer
