// Package deps reconciles an imported application's package manifest with
// the host framework's dependency set.
//
// All functions are pure: maps passed in are never modified and every result
// is a fresh map.
//
// Conflicts are never errors. Two version ranges for the same package are
// compared after stripping range operators, component by component, and the
// greater one wins with its original spelling:
//
//	deps.ResolveVersionConflict("1.2.0", "1.10.0")  // "1.10.0"
//	deps.ResolveVersionConflict("^1.2.0", "~1.2.0") // "^1.2.0", ties keep the first
//
// MergeDependencies starts from the framework set and passes the app's
// version first, so a tie keeps the app's spelling.
package deps
