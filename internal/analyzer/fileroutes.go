package analyzer

import (
	"path"
	"strings"
)

// protectedGroups are route-group names that put their routes behind auth.
var protectedGroups = map[string]bool{
	"protected":     true,
	"private":       true,
	"authenticated": true,
}

// fileRoutes derives routes from an app-router (app/**/page.*) or
// pages-router (pages/**) layout. byPath maps component file paths to their
// names.
func fileRoutes(sourceDir string, sources []string, byPath map[string]string) []RouteInfo {
	layouts := make(map[string]string) // dir -> layout file
	for _, rel := range sources {
		if stem(rel) == "layout" {
			layouts[path.Dir(rel)] = rel
		}
	}

	var routes []RouteInfo
	for _, rel := range sources {
		inner := strings.TrimPrefix(rel, sourceDir+"/")

		var segments []string
		var appRouter bool
		switch {
		case sourceDir == "app" && stem(rel) == "page":
			segments, appRouter = splitDir(path.Dir(inner)), true
		case strings.HasPrefix(inner, "app/") && stem(rel) == "page":
			segments, appRouter = splitDir(path.Dir(strings.TrimPrefix(inner, "app/"))), true
		case strings.HasPrefix(inner, "pages/"):
			sub := strings.TrimPrefix(inner, "pages/")
			if strings.HasPrefix(sub, "api/") || strings.HasPrefix(path.Base(sub), "_") {
				continue
			}
			segments = splitDir(path.Dir(sub))
			if s := stem(sub); s != "index" {
				segments = append(segments, s)
			}
		default:
			continue
		}

		routePath, protected, ok := segmentsToRoute(segments)
		if !ok {
			continue
		}

		route := RouteInfo{Path: routePath, Protected: protected}
		if name, ok := byPath[rel]; ok {
			route.Component = name
			route.ComponentPath = rel
		} else {
			route.Component = nameFromPath(rel)
		}
		if appRouter {
			if layout := nearestLayout(layouts, path.Dir(rel), sourceDir); layout != "" {
				if name, ok := byPath[layout]; ok {
					route.Layout = name
				} else {
					route.Layout = nameFromPath(layout)
				}
			}
		}
		routes = append(routes, route)
	}
	return routes
}

// segmentsToRoute converts directory segments to a route path. Private
// folders (_name) yield ok=false.
func segmentsToRoute(segments []string) (string, bool, bool) {
	var parts []string
	protected := false
	for _, seg := range segments {
		switch {
		case seg == "" || strings.HasPrefix(seg, "@"):
		case strings.HasPrefix(seg, "_"):
			return "", false, false
		case strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")"):
			if protectedGroups[strings.Trim(seg, "()")] {
				protected = true
			}
		case strings.HasPrefix(seg, "[[...") || strings.HasPrefix(seg, "[..."):
			parts = append(parts, "*")
		case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]"):
			parts = append(parts, ":"+strings.Trim(seg, "[]"))
		default:
			parts = append(parts, seg)
		}
	}
	return "/" + strings.Join(parts, "/"), protected, true
}

// nearestLayout walks up from dir until it leaves sourceDir.
func nearestLayout(layouts map[string]string, dir, sourceDir string) string {
	for {
		if l, ok := layouts[dir]; ok {
			return l
		}
		if dir == sourceDir || dir == "." || dir == "/" || !strings.HasPrefix(dir, sourceDir) {
			return ""
		}
		dir = path.Dir(dir)
	}
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
