package analyzer

import "slices"

// Result is the analyzer's snapshot of one application. Slices are sorted by
// file path (components), by path then component (routes) or lexically
// (everything else), so two runs over the same tree compare equal.
type Result struct {
	// Root is the absolute directory that was analyzed.
	Root string `json:"root" yaml:"root"`

	// SourceDir is the discovered source directory, relative to Root.
	SourceDir string `json:"sourceDir" yaml:"sourceDir"`

	Components      []ComponentInfo   `json:"components" yaml:"components"`
	Routes          []RouteInfo       `json:"routes" yaml:"routes"`
	Dependencies    map[string]string `json:"dependencies" yaml:"dependencies"`
	StateManagement StateManagement   `json:"stateManagement" yaml:"stateManagement"`
	StyleSystem     StyleSystem       `json:"styleSystem" yaml:"styleSystem"`
	APIEndpoints    []string          `json:"apiEndpoints" yaml:"apiEndpoints"`

	// Unanalyzable lists files that were skipped because they could not be
	// read or did not look like text source.
	Unanalyzable []string `json:"unanalyzable" yaml:"unanalyzable"`
}

// ComponentInfo describes one component file.
type ComponentInfo struct {
	Name string `json:"name" yaml:"name"`

	// FilePath is relative to the analyzed root, slash separated.
	FilePath string       `json:"filePath" yaml:"filePath"`
	Exports  []string     `json:"exports" yaml:"exports"`
	Imports  []ImportEdge `json:"imports" yaml:"imports"`

	// HasState and HasEffects are textual signals (hook or class state
	// patterns), not guarantees.
	HasState   bool     `json:"hasState" yaml:"hasState"`
	HasEffects bool     `json:"hasEffects" yaml:"hasEffects"`
	Props      []string `json:"props,omitempty" yaml:"props,omitempty"`
}

// ImportEdge is one import statement of a component file.
type ImportEdge struct {
	Source    string   `json:"source" yaml:"source"`
	Names     []string `json:"names" yaml:"names"`
	IsDefault bool     `json:"isDefault" yaml:"isDefault"`
}

// RouteInfo is one discovered route. ComponentPath is empty when the
// component could not be resolved to a discovered file.
type RouteInfo struct {
	Path          string `json:"path" yaml:"path"`
	Component     string `json:"component" yaml:"component"`
	ComponentPath string `json:"componentPath" yaml:"componentPath"`
	Protected     bool   `json:"protected" yaml:"protected"`
	Layout        string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// StateKind is the state-management approach in use.
type StateKind string

const (
	StateRedux    StateKind = "redux"
	StateZustand  StateKind = "zustand"
	StateContext  StateKind = "context"
	StateNone     StateKind = "none"
	StateMultiple StateKind = "multiple"
)

// StateManagement is the state-management classification and its evidence.
type StateManagement struct {
	Kind       StateKind `json:"kind" yaml:"kind"`
	Libraries  []string  `json:"libraries" yaml:"libraries"`
	StoreFiles []string  `json:"storeFiles" yaml:"storeFiles"`
}

// StyleKind is the styling approach in use.
type StyleKind string

const (
	StyleTailwind         StyleKind = "tailwind"
	StyleCSSModules       StyleKind = "css-modules"
	StyleStyledComponents StyleKind = "styled-components"
	StyleEmotion          StyleKind = "emotion"
	StylePlainCSS         StyleKind = "plain-css"
	StyleMultiple         StyleKind = "multiple"
)

// StyleSystem is the styling classification and the files behind it.
type StyleSystem struct {
	Kind        StyleKind `json:"kind" yaml:"kind"`
	ConfigFiles []string  `json:"configFiles" yaml:"configFiles"`
}

// Component returns the component whose FilePath is path.
func (r *Result) Component(path string) (ComponentInfo, bool) {
	i, ok := slices.BinarySearchFunc(r.Components, path, func(c ComponentInfo, p string) int {
		switch {
		case c.FilePath < p:
			return -1
		case c.FilePath > p:
			return 1
		}
		return 0
	})
	if !ok {
		return ComponentInfo{}, false
	}
	return r.Components[i], true
}
