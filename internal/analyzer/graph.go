package analyzer

import (
	"path"
	"sort"
	"strings"
)

// resolveExts are tried, in order, when an import specifier has no extension
// or names a directory.
var resolveExts = []string{".tsx", ".ts", ".jsx", ".js", ".vue", ".svelte", ".mjs", ".cjs"}

// ResolveImport resolves a module specifier used in the component file from
// to the component file it names. Relative specifiers and the "@/" and "~/"
// source-directory aliases are supported; package imports never resolve.
func (r *Result) ResolveImport(from, spec string) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		base = path.Join(path.Dir(from), spec)
	case strings.HasPrefix(spec, "@/") || strings.HasPrefix(spec, "~/"):
		base = path.Join(r.SourceDir, spec[2:])
	case r.SourceDir != "" && strings.HasPrefix(spec, r.SourceDir+"/"):
		base = path.Clean(spec)
	default:
		return "", false
	}

	if _, ok := r.Component(base); ok {
		return base, true
	}
	for _, ext := range resolveExts {
		if _, ok := r.Component(base + ext); ok {
			return base + ext, true
		}
	}
	for _, ext := range resolveExts {
		if _, ok := r.Component(base + "/index" + ext); ok {
			return base + "/index" + ext, true
		}
	}
	return "", false
}

// Reachable returns the component files reachable from roots by following
// resolvable import edges, roots included, sorted.
func (r *Result) Reachable(roots []string) []string {
	seen := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, ok := r.Component(root); ok && !seen[root] {
			seen[root] = true
			queue = append(queue, root)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, _ := r.Component(cur)
		for _, edge := range c.Imports {
			next, ok := r.ResolveImport(cur, edge.Source)
			if !ok || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
