package importer

import (
	"slices"
	"strings"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/deps"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

// authPackages are dependency name prefixes that imply the app has
// authentication.
var authPackages = []string{"next-auth", "@auth0/", "firebase", "@clerk/", "@supabase/", "@okta/", "aws-amplify"}

// buildConfig derives the template config from an analysis and the merged
// dependency map.
func buildConfig(req Request, src source, a *analyzer.Result, merged map[string]string) templates.Config {
	cfg := templates.Config{
		Name:         req.Name,
		Description:  req.Description,
		Version:      req.Version,
		Source:       templates.Source{Repository: src.location, Branch: src.branch},
		Components:   splitComponents(a),
		Routes:       portableRoutes(a.Routes),
		Dependencies: deps.Clone(merged),
	}
	if !src.remote {
		cfg.Source.Repository = src.root
	}
	if cfg.Description == "" {
		cfg.Description = "Imported from " + src.location
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	cfg.Customization = customization(a)
	cfg.Modules = modules(a, cfg.Customization)
	return cfg
}

func portableRoutes(routes []analyzer.RouteInfo) []templates.Route {
	out := make([]templates.Route, len(routes))
	for i, r := range routes {
		out[i] = templates.Route{
			Path:      r.Path,
			Component: r.Component,
			Protected: r.Protected,
			Layout:    r.Layout,
		}
	}
	return out
}

// splitComponents marks every component reachable from a route component or
// a route layout as required and the rest as optional. Paths are rewritten
// to the template's layout, where the source directory becomes src/.
func splitComponents(a *analyzer.Result) templates.Components {
	layouts := make(map[string]bool)
	var roots []string
	for _, r := range a.Routes {
		if r.ComponentPath != "" {
			roots = append(roots, r.ComponentPath)
		}
		if r.Layout != "" {
			layouts[r.Layout] = true
		}
	}
	for _, c := range a.Components {
		if layouts[c.Name] {
			roots = append(roots, c.FilePath)
		}
	}

	required := a.Reachable(roots)
	out := templates.Components{Required: []string{}, Optional: []string{}}
	for _, c := range a.Components {
		p := templatePath(a.SourceDir, c.FilePath)
		if _, ok := slices.BinarySearch(required, c.FilePath); ok {
			out.Required = append(out.Required, p)
		} else {
			out.Optional = append(out.Optional, p)
		}
	}
	return out
}

func templatePath(sourceDir, rel string) string {
	if rest, ok := strings.CutPrefix(rel, sourceDir+"/"); ok {
		return templates.SourceDirName + "/" + rest
	}
	return rel
}

func customization(a *analyzer.Result) templates.Customization {
	var c templates.Customization

	switch a.StyleSystem.Kind {
	case analyzer.StyleTailwind, analyzer.StyleStyledComponents, analyzer.StyleEmotion, analyzer.StyleMultiple:
		c.Theme = true
	}
	for _, comp := range a.Components {
		if strings.Contains(comp.Name, "Theme") {
			c.Theme = true
		}
		if strings.HasSuffix(comp.Name, "Layout") {
			c.Layout = true
		}
	}
	for _, r := range a.Routes {
		if r.Layout != "" {
			c.Layout = true
		}
		if r.Protected {
			c.Auth = true
		}
	}
	for name := range a.Dependencies {
		if hasAnyPrefix(name, authPackages) {
			c.Auth = true
		}
	}
	return c
}

// modules lists the feature modules a template ships, in a fixed order.
func modules(a *analyzer.Result, c templates.Customization) []string {
	out := []string{}
	if len(a.Routes) > 0 {
		out = append(out, "router")
	}
	if a.StateManagement.Kind != "" && a.StateManagement.Kind != analyzer.StateNone {
		out = append(out, "state-"+string(a.StateManagement.Kind))
	}
	if a.StyleSystem.Kind != "" {
		out = append(out, "styles-"+string(a.StyleSystem.Kind))
	}
	if len(a.APIEndpoints) > 0 {
		out = append(out, "api-client")
	}
	if c.Auth {
		out = append(out, "auth")
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
