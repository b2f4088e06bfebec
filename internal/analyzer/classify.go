package analyzer

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

var stateLibraries = map[string]StateKind{
	"redux":            StateRedux,
	"@reduxjs/toolkit": StateRedux,
	"react-redux":      StateRedux,
	"redux-toolkit":    StateRedux,
	"zustand":          StateZustand,
}

// classifyState derives the state-management kind from the imports and
// context definitions of the scanned files.
func classifyState(files []scannedFile) StateManagement {
	kinds := make(map[StateKind]bool)
	libs := make(map[string]bool)
	var stores []string

	for _, f := range files {
		store := false
		for _, edge := range f.facts.Imports {
			for lib, kind := range stateLibraries {
				if edge.Source == lib || strings.HasPrefix(edge.Source, lib+"/") {
					kinds[kind] = true
					libs[lib] = true
				}
			}
		}
		if f.facts.DefinesContext {
			kinds[StateContext] = true
			store = true
		}
		if f.facts.DefinesStore {
			store = true
		}
		if store {
			stores = append(stores, f.path)
		}
	}

	sm := StateManagement{
		Kind:       StateNone,
		Libraries:  sortedKeys(libs),
		StoreFiles: stores,
	}
	sort.Strings(sm.StoreFiles)
	if sm.StoreFiles == nil {
		sm.StoreFiles = []string{}
	}

	switch len(kinds) {
	case 0:
	case 1:
		for k := range kinds {
			sm.Kind = k
		}
	default:
		sm.Kind = StateMultiple
	}
	return sm
}

// classifyStyle derives the styling kind. Tailwind is detected from root
// config files, CSS modules from *.module.* stylesheets, CSS-in-JS from
// imports. Without any of those the app is plain CSS.
func classifyStyle(root string, inv *inventory, files []scannedFile) StyleSystem {
	kinds := make(map[StyleKind]bool)
	var configs []string

	if tw := rootConfigFiles(root, "tailwind.config."); len(tw) > 0 {
		kinds[StyleTailwind] = true
		configs = append(configs, tw...)
	}
	for _, pc := range rootConfigFiles(root, "postcss.config.", ".postcssrc") {
		data, err := os.ReadFile(filepath.Join(root, pc))
		if err == nil && strings.Contains(string(data), "tailwind") {
			kinds[StyleTailwind] = true
			configs = append(configs, pc)
		}
	}

	for _, s := range inv.styles {
		if strings.Contains(path.Base(s), ".module.") {
			kinds[StyleCSSModules] = true
			break
		}
	}
	for _, f := range files {
		for _, edge := range f.facts.Imports {
			switch {
			case edge.Source == "styled-components" || strings.HasPrefix(edge.Source, "styled-components/"):
				kinds[StyleStyledComponents] = true
			case strings.HasPrefix(edge.Source, "@emotion/"):
				kinds[StyleEmotion] = true
			case strings.Contains(path.Base(edge.Source), ".module."):
				kinds[StyleCSSModules] = true
			}
		}
	}

	ss := StyleSystem{Kind: StylePlainCSS, ConfigFiles: configs}
	sort.Strings(ss.ConfigFiles)
	if ss.ConfigFiles == nil {
		ss.ConfigFiles = []string{}
	}
	switch len(kinds) {
	case 0:
	case 1:
		for k := range kinds {
			ss.Kind = k
		}
	default:
		ss.Kind = StyleMultiple
	}
	return ss
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
