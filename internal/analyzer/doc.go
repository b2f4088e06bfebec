// Package analyzer recovers the structure of an existing front-end
// application from its source tree.
//
// Analysis is static and best-effort: files are read as text and matched
// against the patterns of common React, Vue and Svelte code. Nothing is
// executed or transpiled, so facts hidden behind unusual formatting or
// indirection are missed rather than guessed.
//
// # Usage
//
//	res, err := analyzer.Analyze(ctx, "./legacy-app", analyzer.Options{
//	    Logger:  logger,
//	    Workers: 8,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, r := range res.Routes {
//	    fmt.Println(r.Path, r.Component, r.ComponentPath)
//	}
//
// # Source directory
//
// The first existing, non-empty directory among src, app, source and client
// is analyzed. Build output, dependency folders and paths matched by the
// root .gitignore are skipped.
//
// # Failures
//
// A missing source directory fails the whole analysis. Individual files that
// cannot be read, are binary or exceed Options.MaxFileSize are logged and
// listed in Result.Unanalyzable instead.
package analyzer
