package analyzer

import (
	"bytes"
	"errors"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// FileFacts are the structural facts recovered from one source file.
type FileFacts struct {
	// Name is the component name the file is known by.
	Name string

	Exports    []string
	Imports    []ImportEdge
	HasState   bool
	HasEffects bool
	Props      []string

	// IsComponent is set when the file exports at least one value or is a
	// single-file component (.vue, .svelte).
	IsComponent bool

	Routes    []RouteDecl
	Endpoints []string

	// DefinesContext is set when the file calls createContext.
	DefinesContext bool

	// DefinesStore is set when the file builds a redux or zustand store.
	DefinesStore bool
}

// RouteDecl is a route as written in a router configuration, before its
// component is resolved against the component set.
type RouteDecl struct {
	Path      string
	Component string
	// Source is the module specifier of a lazily imported route component.
	Source    string
	Protected bool
	Layout    string
}

// Extractor recovers facts from a single file. Implementations must be safe
// for concurrent use.
type Extractor interface {
	Extract(filePath string, src []byte) (*FileFacts, error)
}

// ErrNotText is returned for content that is not UTF-8 text.
var ErrNotText = errors.New("not a text source file")

// TextExtractor is the pattern-based Extractor. It works on the raw text with
// regular expressions and a small brace matcher; it never builds a syntax
// tree, so unusual formatting can hide facts from it.
type TextExtractor struct{}

// NewTextExtractor returns the pattern-based extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

var (
	reExportDecl          = regexp.MustCompile(`(?m)^[ \t]*export\s+(default\s+)?(?:async\s+)?(?:function\*?|class|const|let|var)\s+([A-Za-z_$][\w$]*)`)
	reExportDefaultIdent  = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+([A-Za-z_$][\w$]*)\s*;?[ \t]*$`)
	reExportDefaultWrap   = regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+[\w$.]+\((?:[^()]*\)\s*\()?\s*([A-Z][\w$]*)\s*\)`)
	reExportDefaultAny    = regexp.MustCompile(`(?m)^[ \t]*export\s+default\b`)
	reExportList          = regexp.MustCompile(`\bexport\s*(type\s*)?\{([^}]*)\}`)
	reModuleExports       = regexp.MustCompile(`\bmodule\.exports\s*=\s*([A-Za-z_$][\w$]*)?`)
	reExportsProp         = regexp.MustCompile(`\bexports\.([A-Za-z_$][\w$]*)\s*=`)
	reImportFrom          = regexp.MustCompile(`\bimport\s+(type\s+)?([^'";]*?)\s*from\s*['"]([^'"\n]+)['"]`)
	reImportBare          = regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"\n]+)['"]`)
	reRequire             = regexp.MustCompile(`(?:(?:const|let|var)\s+(\{[^}]*\}|[A-Za-z_$][\w$]*)\s*=\s*)?\brequire\(\s*['"]([^'"\n]+)['"]\s*\)`)
	reLazyImport          = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:React\.)?lazy\(\s*\(\s*\)\s*=>\s*import\(\s*['"]([^'"\n]+)['"]\s*\)`)
	reDynamicImport       = regexp.MustCompile(`\bimport\(\s*['"]([^'"\n]+)['"]\s*\)`)
	reStateHook           = regexp.MustCompile(`\buse(?:State|Reducer)\s*(?:<[^>()]*>)?\s*\(|\bthis\.state\b|\bthis\.setState\s*\(`)
	reEffectHook          = regexp.MustCompile(`\buse(?:Layout)?Effect\s*\(`)
	reCreateContext       = regexp.MustCompile(`\bcreateContext\s*(?:<[^>()]*>)?\s*\(`)
	reReduxStore          = regexp.MustCompile(`\b(?:configureStore|createStore|createSlice|combineReducers)\s*\(`)
	reHTTPCall            = regexp.MustCompile(`\b(?:fetch|useSWR|axios(?:\.(?:get|post|put|patch|delete|head|options|request))?|(?:api|http|client|request|instance|axiosInstance|apiClient)\.(?:get|post|put|patch|delete|head|options))\s*(?:<[^()]*?>)?\s*\(\s*(?:'([^'\n]*)'|"([^"\n]*)"|` + "`([^`]*)`" + `)`)
	reInterfaceProps      = regexp.MustCompile(`(?s)\b(?:interface\s+([A-Z][\w$]*Props)\s*(?:extends[^{]*)?\{|type\s+([A-Z][\w$]*Props)\s*=\s*\{)`)
	reMemberName          = regexp.MustCompile(`^(?:readonly\s+)?([A-Za-z_$][\w$]*)\??\s*:`)
	reIdentifier          = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	reSingleFileComponent = regexp.MustCompile(`\.(vue|svelte)$`)
)

// Extract implements Extractor.
func (x *TextExtractor) Extract(filePath string, src []byte) (*FileFacts, error) {
	if bytes.IndexByte(src, 0) >= 0 || !utf8.Valid(src) {
		return nil, ErrNotText
	}

	text := stripComments(string(src))
	facts := &FileFacts{}

	exports, defaultName, hasDefault := extractExports(text)
	facts.Exports = exports
	facts.Imports = extractImports(text)
	facts.HasState = reStateHook.MatchString(text)
	facts.HasEffects = reEffectHook.MatchString(text)
	facts.DefinesContext = reCreateContext.MatchString(text)
	facts.DefinesStore = reReduxStore.MatchString(text) || importsModule(facts.Imports, "zustand")
	facts.Endpoints = extractEndpoints(text)

	sfc := reSingleFileComponent.MatchString(filePath)
	facts.IsComponent = len(exports) > 0 || hasDefault || sfc
	facts.Name = componentName(filePath, defaultName, exports, sfc)
	if facts.IsComponent {
		facts.Props = extractProps(text, facts.Name)
	}

	routerImported := importsAny(facts.Imports, routerModules)
	facts.Routes = append(extractJSXRoutes(text), extractTableRoutes(text, routerImported)...)

	return facts, nil
}

// stripComments removes block comments and whole-line // comments. String
// and template literals are copied verbatim, so "/docs/*" opens nothing.
// Newlines inside block comments are kept to preserve line structure for the
// line-anchored patterns.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lineStart := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := skipString(s, i)
			b.WriteString(s[i : j+1])
			lineStart = s[j] == '\n'
			i = j
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := len(s)
			if k := strings.Index(s[i+2:], "*/"); k >= 0 {
				end = i + 2 + k + 2
			}
			if n := strings.Count(s[i:end], "\n"); n > 0 {
				b.WriteString(strings.Repeat("\n", n))
				lineStart = true
			}
			i = end - 1
			continue
		case c == '/' && lineStart && i+1 < len(s) && s[i+1] == '/':
			k := strings.IndexByte(s[i:], '\n')
			if k < 0 {
				return b.String()
			}
			i += k - 1
			continue
		}
		b.WriteByte(c)
		switch c {
		case '\n':
			lineStart = true
		case ' ', '\t', '\r':
		default:
			lineStart = false
		}
	}
	return b.String()
}

// extractExports returns the exported value identifiers, the default export's
// name when it has one, and whether a default export exists at all.
func extractExports(text string) ([]string, string, bool) {
	seen := make(map[string]bool)
	var exports []string
	add := func(name string) {
		if name == "" || seen[name] || isKeyword(name) {
			return
		}
		seen[name] = true
		exports = append(exports, name)
	}

	var defaultName string
	hasDefault := reExportDefaultAny.MatchString(text)

	for _, m := range reExportDecl.FindAllStringSubmatch(text, -1) {
		add(m[2])
		if m[1] != "" && defaultName == "" {
			defaultName = m[2]
		}
	}
	for _, m := range reExportDefaultIdent.FindAllStringSubmatch(text, -1) {
		if !isKeyword(m[1]) && defaultName == "" {
			defaultName = m[1]
		}
	}
	if defaultName == "" {
		if m := reExportDefaultWrap.FindStringSubmatch(text); m != nil {
			defaultName = m[1]
		}
	}
	for _, m := range reExportList.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			continue
		}
		for _, item := range strings.Split(m[2], ",") {
			item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "type "))
			if item == "" {
				continue
			}
			local, exported := item, item
			if i := strings.Index(item, " as "); i >= 0 {
				local = strings.TrimSpace(item[:i])
				exported = strings.TrimSpace(item[i+4:])
			}
			if exported == "default" {
				hasDefault = true
				if defaultName == "" {
					defaultName = local
				}
				continue
			}
			add(exported)
		}
	}
	for _, m := range reModuleExports.FindAllStringSubmatch(text, -1) {
		hasDefault = true
		if m[1] != "" && defaultName == "" && !isKeyword(m[1]) {
			defaultName = m[1]
		}
	}
	for _, m := range reExportsProp.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	if defaultName != "" {
		add(defaultName)
	}
	return exports, defaultName, hasDefault
}

func extractImports(text string) []ImportEdge {
	var edges []ImportEdge
	lazySources := make(map[string]bool)

	for _, m := range reImportFrom.FindAllStringSubmatch(text, -1) {
		edge := parseImportClause(m[2])
		edge.Source = m[3]
		edges = append(edges, edge)
	}
	for _, m := range reImportBare.FindAllStringSubmatch(text, -1) {
		edges = append(edges, ImportEdge{Source: m[1], Names: []string{}})
	}
	for _, m := range reRequire.FindAllStringSubmatch(text, -1) {
		edge := ImportEdge{Source: m[2], Names: []string{}}
		switch {
		case strings.HasPrefix(m[1], "{"):
			edge.Names = splitNames(strings.Trim(m[1], "{}"), ":")
		case m[1] != "":
			edge.Names = []string{m[1]}
			edge.IsDefault = true
		}
		edges = append(edges, edge)
	}
	for _, m := range reLazyImport.FindAllStringSubmatch(text, -1) {
		lazySources[m[2]] = true
		edges = append(edges, ImportEdge{Source: m[2], Names: []string{m[1]}, IsDefault: true})
	}
	for _, m := range reDynamicImport.FindAllStringSubmatch(text, -1) {
		if lazySources[m[1]] {
			continue
		}
		lazySources[m[1]] = true
		edges = append(edges, ImportEdge{Source: m[1], Names: []string{}})
	}
	return edges
}

// parseImportClause parses the part between "import" and "from", e.g.
// `React, { useState as useS }` or `* as api`.
func parseImportClause(clause string) ImportEdge {
	edge := ImportEdge{Names: []string{}}
	clause = strings.TrimSpace(clause)

	if clause != "" && clause[0] != '{' && clause[0] != '*' {
		head := clause
		rest := ""
		if i := strings.Index(clause, ","); i >= 0 {
			head, rest = clause[:i], clause[i+1:]
		}
		head = strings.TrimSpace(head)
		if reIdentifier.MatchString(head) {
			edge.Names = append(edge.Names, head)
			edge.IsDefault = true
		}
		clause = strings.TrimSpace(rest)
	}

	if strings.HasPrefix(clause, "*") {
		if i := strings.Index(clause, " as "); i >= 0 {
			edge.Names = append(edge.Names, strings.TrimSpace(clause[i+4:]))
		}
		return edge
	}

	if strings.HasPrefix(clause, "{") {
		inner := strings.Trim(clause, "{} \t\n")
		for _, item := range strings.Split(inner, ",") {
			item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "type "))
			if item == "" {
				continue
			}
			name := item
			if i := strings.Index(item, " as "); i >= 0 {
				if strings.TrimSpace(item[:i]) == "default" {
					edge.IsDefault = true
				}
				name = strings.TrimSpace(item[i+4:])
			}
			edge.Names = append(edge.Names, name)
		}
	}
	return edge
}

// splitNames splits a destructuring list, keeping the local name of
// renamed entries ("a: b" with sep ":" keeps "b").
func splitNames(list, sep string) []string {
	names := []string{}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if i := strings.Index(item, sep); i >= 0 {
			item = strings.TrimSpace(item[i+len(sep):])
		}
		names = append(names, item)
	}
	return names
}

func extractEndpoints(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range reHTTPCall.FindAllStringSubmatch(text, -1) {
		lit := m[1] + m[2] + m[3]
		if !looksLikeEndpoint(lit) || seen[lit] {
			continue
		}
		seen[lit] = true
		out = append(out, lit)
	}
	sort.Strings(out)
	return out
}

func looksLikeEndpoint(s string) bool {
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "${")
}

// extractProps returns the prop names of the component called name, taken
// from a NameProps interface/type or from a destructured first parameter.
func extractProps(text, name string) []string {
	seen := make(map[string]bool)
	var props []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		props = append(props, p)
	}

	for _, loc := range reInterfaceProps.FindAllStringSubmatchIndex(text, -1) {
		typeName := submatch(text, loc, 1) + submatch(text, loc, 2)
		if name != "" && typeName != name+"Props" && typeName != "Props" {
			continue
		}
		body, ok := braceBody(text, loc[1]-1)
		if !ok {
			continue
		}
		for _, member := range splitTopLevel(body, ";,\n") {
			if m := reMemberName.FindStringSubmatch(strings.TrimSpace(member)); m != nil {
				add(m[1])
			}
		}
	}

	if name != "" {
		quoted := regexp.QuoteMeta(name)
		reParams := regexp.MustCompile(`(?:function\s+` + quoted + `\s*(?:<[^>]*>)?\s*|(?:const|let|var)\s+` + quoted + `\s*(?::[^=]+)?=\s*(?:(?:React\.)?(?:memo|forwardRef)\s*(?:<[^>]*>)?\(\s*)?(?:function\s*\w*\s*)?(?:async\s*)?)\(\s*\{`)
		if loc := reParams.FindStringIndex(text); loc != nil {
			if body, ok := braceBody(text, loc[1]-1); ok {
				for _, item := range splitTopLevel(body, ",") {
					item = strings.TrimSpace(item)
					if item == "" || strings.HasPrefix(item, "...") {
						continue
					}
					if i := strings.IndexAny(item, ":="); i >= 0 {
						item = strings.TrimSpace(item[:i])
					}
					if reIdentifier.MatchString(item) {
						add(item)
					}
				}
			}
		}
	}

	return props
}

func submatch(s string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

// componentName picks the name a file is known by: its default export, the
// first PascalCase export, the first export, or a name derived from the file
// path (index files take their directory's name).
func componentName(filePath, defaultName string, exports []string, sfc bool) string {
	if defaultName != "" && !sfc {
		return defaultName
	}
	if !sfc {
		for _, e := range exports {
			if isPascal(e) {
				return e
			}
		}
		if len(exports) > 0 {
			return exports[0]
		}
	}
	return nameFromPath(filePath)
}

func nameFromPath(filePath string) string {
	base := path.Base(filePath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = strings.TrimSuffix(stem, ".module")
	if stem == "index" || stem == "page" || stem == "route" {
		dir := path.Base(path.Dir(filePath))
		if dir != "." && dir != "/" {
			stem = strings.Trim(dir, "[]()")
		}
	}
	return pascalCase(stem)
}

func isPascal(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func importsModule(edges []ImportEdge, module string) bool {
	for _, e := range edges {
		if e.Source == module || strings.HasPrefix(e.Source, module+"/") {
			return true
		}
	}
	return false
}

func importsAny(edges []ImportEdge, modules []string) bool {
	for _, m := range modules {
		if importsModule(edges, m) {
			return true
		}
	}
	return false
}

var keywords = map[string]bool{
	"function": true, "class": true, "const": true, "let": true, "var": true,
	"async": true, "default": true, "new": true, "return": true, "await": true,
	"interface": true, "type": true, "enum": true, "null": true, "true": true,
	"false": true, "undefined": true,
}

func isKeyword(s string) bool {
	return keywords[s]
}
