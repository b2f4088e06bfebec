// Package errors provides structured, actionable error messages for the vhv
// CLI and its import pipeline.
//
// # Error Categories
//
// Errors are organized into categories:
//   - not_found: a manifest, template config or template is missing
//   - validation: name charset, name collisions, malformed JSON documents
//   - analysis: no recognizable source directory, remote fetch failures
//   - io: filesystem create, write, copy and remove failures
//   - config: vhv.json parse and validation failures
//
// Dependency version conflicts are never errors; they are always resolved.
//
// # Error Codes
//
// Each error has a unique code (e.g., "E301") that maps to a short message.
// Callers add the path, a detail line and a hint:
//
//	err := errors.New("E301").
//	    WithPath(root).
//	    WithDetail("none of src, app, source, client exist").
//	    WithSuggestion("Point vhv at the application root")
//
//	errors.PrintError(err)
//
// Category checks go through the error chain, so wrapped errors still match:
//
//	if errors.IsNotFound(err) { ... }
package errors
