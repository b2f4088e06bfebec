package analyzer

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// routerModules are the packages whose import marks a file as router
// configuration.
var routerModules = []string{
	"react-router",
	"react-router-dom",
	"@tanstack/react-router",
	"@reach/router",
	"vue-router",
	"wouter",
}

var (
	reRouteTag       = regexp.MustCompile(`<Route\b|</Route\s*>`)
	reJSXPathAttr    = regexp.MustCompile(`\bpath\s*=\s*(?:"([^"]*)"|'([^']*)'|\{\s*(?:"([^"]*)"|'([^']*)'|` + "`([^`]*)`" + `)\s*\})`)
	reJSXIndexAttr   = regexp.MustCompile(`(?:^|\s)index(?:\s|/|$|=\{\s*true\s*\})`)
	reJSXElementAttr = regexp.MustCompile(`\belement\s*=\s*\{`)
	reJSXCompAttr    = regexp.MustCompile(`\b(?:component|Component)\s*=\s*\{\s*([A-Z][\w$.]*)\s*\}`)
	reFallbackAttr   = regexp.MustCompile(`\bfallback\s*=\s*\{`)
	reJSXOpenName    = regexp.MustCompile(`<([A-Z][\w$.]*)`)

	reTablePath      = regexp.MustCompile(`\bpath\s*:\s*(?:'([^'\n]*)'|"([^"\n]*)"|` + "`([^`\n]*)`)")
	reTableComponent = regexp.MustCompile(`\b(?:component|Component)\s*:\s*([A-Z][\w$.]*)`)
	reTableElement   = regexp.MustCompile(`\belement\s*:\s*`)
	reTableLazy      = regexp.MustCompile(`\b(?:lazy|component|Component|loadComponent)\s*:\s*(?:async\s*)?\(\s*\)\s*=>\s*import\(\s*['"]([^'"\n]+)['"]`)
	reTableProtected = regexp.MustCompile(`\b(?:protected|isProtected|private|isPrivate|requiresAuth|requireAuth|auth)\s*:\s*true\b`)
	reTableLayout    = regexp.MustCompile(`\blayout\s*:\s*(?:([A-Z][\w$.]*)|['"]([\w-]+)['"])`)
)

// jsxWrappers are elements that wrap a route component without being one.
var jsxWrappers = map[string]bool{
	"Suspense":         true,
	"React.Suspense":   true,
	"Fragment":         true,
	"React.Fragment":   true,
	"StrictMode":       true,
	"React.StrictMode": true,
	"ErrorBoundary":    true,
}

// isGuard reports whether an element name looks like an auth guard wrapper.
func isGuard(name string) bool {
	for _, marker := range []string{"Protected", "Private", "RequireAuth", "AuthGuard", "AuthRoute"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return name == "Authenticated" || strings.HasSuffix(name, "Guard")
}

func isRedirect(name string) bool {
	return name == "Navigate" || name == "Redirect"
}

// extractJSXRoutes reads nested <Route> elements. Child paths are joined to
// their parent's, the nearest enclosing route component becomes the layout,
// and guards protect everything beneath them.
func extractJSXRoutes(text string) []RouteDecl {
	type frame struct {
		path      string
		component string
		protected bool
	}

	var (
		stack    []frame
		out      []RouteDecl
		consumed int
	)

	for _, loc := range reRouteTag.FindAllStringIndex(text, -1) {
		if loc[0] < consumed {
			continue
		}
		if strings.HasPrefix(text[loc[0]:], "</") {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		end, ok := tagEnd(text, loc[1])
		if !ok {
			break
		}
		consumed = end
		attrs := text[loc[1]:end]
		selfClosing := strings.HasSuffix(strings.TrimSpace(attrs), "/")

		var parent frame
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		routePath, hasPath := jsxPath(attrs)
		index := reJSXIndexAttr.MatchString(attrs)
		guarded, component := splitGuard(jsxRouteComponents(attrs))

		full := parent.path
		if hasPath {
			full = joinRoutePath(parent.path, routePath)
		} else if index && full == "" {
			full = "/"
		}
		protected := parent.protected || guarded

		if (hasPath || index) && component != "" && !isRedirect(component) {
			out = append(out, RouteDecl{
				Path:      full,
				Component: component,
				Protected: protected,
				Layout:    parent.component,
			})
		}

		if !selfClosing {
			f := frame{path: full, component: parent.component, protected: protected}
			if component != "" && !isRedirect(component) {
				f.component = component
			}
			stack = append(stack, f)
		}
	}
	return out
}

func jsxPath(attrs string) (string, bool) {
	m := reJSXPathAttr.FindStringSubmatch(attrs)
	if m == nil {
		return "", false
	}
	return m[1] + m[2] + m[3] + m[4] + m[5], true
}

func jsxRouteComponents(attrs string) []string {
	if loc := reJSXElementAttr.FindStringIndex(attrs); loc != nil {
		if body, ok := braceBody(attrs, loc[1]-1); ok {
			return jsxNames(body)
		}
	}
	if m := reJSXCompAttr.FindStringSubmatch(attrs); m != nil {
		return []string{m[1]}
	}
	return nil
}

// jsxNames returns the capitalized element names of a JSX expression in
// order, ignoring fallbacks and structural wrappers.
func jsxNames(expr string) []string {
	for {
		loc := reFallbackAttr.FindStringIndex(expr)
		if loc == nil {
			break
		}
		end, ok := matchClose(expr, loc[1]-1)
		if !ok {
			break
		}
		expr = expr[:loc[0]] + expr[end+1:]
	}

	var names []string
	for _, m := range reJSXOpenName.FindAllStringSubmatch(expr, -1) {
		if !jsxWrappers[m[1]] {
			names = append(names, m[1])
		}
	}
	return names
}

// splitGuard separates guard wrappers from the component they protect.
func splitGuard(names []string) (guarded bool, component string) {
	for _, n := range names {
		if isGuard(n) {
			guarded = true
			continue
		}
		if component == "" {
			component = n
		}
	}
	return guarded, component
}

// joinRoutePath joins a child route path to its parent's. Absolute children
// stand alone.
func joinRoutePath(parent, child string) string {
	child = strings.TrimSpace(child)
	if strings.HasPrefix(child, "/") {
		return cleanRoutePath(child)
	}
	if child == "" {
		return cleanRoutePath(parent)
	}
	return cleanRoutePath(strings.TrimSuffix(parent, "/") + "/" + child)
}

func cleanRoutePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	cleaned := path.Clean(p)
	return cleaned
}

type tableEntry struct {
	start, end int
	path       string
}

// extractTableRoutes reads route objects ({ path: ..., element|component:
// ... }) and nests them by containment. Objects are only considered when the
// file imports a router or at least one entry names a component.
func extractTableRoutes(text string, routerImported bool) []RouteDecl {
	var entries []tableEntry
	seen := make(map[int]bool)
	for _, m := range reTablePath.FindAllStringSubmatchIndex(text, -1) {
		open, ok := enclosingBrace(text, m[0])
		if !ok || seen[open] {
			continue
		}
		end, ok := matchClose(text, open)
		if !ok {
			continue
		}
		seen[open] = true
		entries = append(entries, tableEntry{
			start: open,
			end:   end,
			path:  submatch(text, m, 1) + submatch(text, m, 2) + submatch(text, m, 3),
		})
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	type resolved struct {
		full      string
		component string
		protected bool
	}
	res := make([]resolved, len(entries))

	var out []RouteDecl
	anyComponent := false

	for i, e := range entries {
		parent := -1
		for j := i - 1; j >= 0; j-- {
			if entries[j].start < e.start && entries[j].end > e.end {
				parent = j
				break
			}
		}

		own := ownText(text, entries, i)
		decl := RouteDecl{Protected: reTableProtected.MatchString(own)}

		if m := reTableLazy.FindStringSubmatch(own); m != nil {
			decl.Source = m[1]
		} else if m := reTableComponent.FindStringSubmatch(own); m != nil {
			decl.Component = m[1]
		} else if loc := reTableElement.FindStringIndex(own); loc != nil {
			var guarded bool
			guarded, decl.Component = splitGuard(jsxNames(own[loc[1]:exprEnd(own, loc[1])]))
			decl.Protected = decl.Protected || guarded
		}

		var p resolved
		if parent >= 0 {
			p = res[parent]
		}
		decl.Path = joinRoutePath(p.full, e.path)
		decl.Protected = decl.Protected || p.protected
		if m := reTableLayout.FindStringSubmatch(own); m != nil {
			decl.Layout = m[1] + pascalCase(m[2])
		} else {
			decl.Layout = p.component
		}

		res[i] = resolved{full: decl.Path, component: p.component, protected: decl.Protected}
		if decl.Component != "" && !isRedirect(decl.Component) {
			res[i].component = decl.Component
		}

		if (decl.Component != "" && !isRedirect(decl.Component)) || decl.Source != "" {
			anyComponent = true
			out = append(out, decl)
		}
	}

	if !routerImported && !anyComponent {
		return nil
	}
	return out
}

// ownText is the body of entries[i] with nested entries blanked out.
func ownText(text string, entries []tableEntry, i int) string {
	e := entries[i]
	body := []byte(text[e.start+1 : e.end])
	for j := i + 1; j < len(entries); j++ {
		c := entries[j]
		if c.start >= e.end {
			break
		}
		if c.end > e.end {
			continue
		}
		for k := c.start - e.start - 1; k < c.end-e.start && k < len(body); k++ {
			if k >= 0 {
				body[k] = ' '
			}
		}
	}
	return string(body)
}

// enclosingBrace finds the '{' of the object literal surrounding pos.
func enclosingBrace(s string, pos int) (int, bool) {
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		switch s[i] {
		case '}':
			depth++
		case '{':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}
