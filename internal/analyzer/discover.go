package analyzer

import (
	"bufio"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// SourceDirCandidates are probed in order; the first existing, non-empty
// directory is the application's source directory.
var SourceDirCandidates = []string{"src", "app", "source", "client"}

// excludedDirs are never walked, whatever .gitignore says.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".nuxt":        true,
	".cache":       true,
	".turbo":       true,
	"coverage":     true,
	".git":         true,
	"out":          true,
	"__tests__":    true,
	"__mocks__":    true,
}

var sourceExts = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".vue": true, ".svelte": true,
}

var styleExts = map[string]bool{
	".css": true, ".scss": true, ".sass": true, ".less": true,
}

// findSourceDir returns the first candidate directory under root that exists
// and has at least one entry.
func findSourceDir(root string) (string, error) {
	for _, name := range SourceDirCandidates {
		entries, err := os.ReadDir(filepath.Join(root, name))
		if err == nil && len(entries) > 0 {
			return name, nil
		}
	}
	return "", errors.New("E301").
		WithPath(root).
		WithDetail("looked for " + strings.Join(SourceDirCandidates, ", "))
}

// loadIgnore compiles root/.gitignore, or returns nil when there is none.
func loadIgnore(root string) *ignore.GitIgnore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

// inventory is what a walk of the source directory turns up.
type inventory struct {
	sources []string // slash paths relative to root
	styles  []string
}

// walkSources lists source and stylesheet files under root/sourceDir.
// Excluded directories and ignored paths are pruned.
func walkSources(root, sourceDir string, gi *ignore.GitIgnore) (*inventory, error) {
	inv := &inventory{}
	base := filepath.Join(root, sourceDir)

	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == base {
				return err
			}
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p != base && (excludedDirs[d.Name()] || (gi != nil && gi.MatchesPath(rel+"/"))) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		switch {
		case isSourceFile(d.Name()):
			inv.sources = append(inv.sources, rel)
		case styleExts[path.Ext(d.Name())]:
			inv.styles = append(inv.styles, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New("E404").WithPath(base).Wrap(err)
	}
	return inv, nil
}

func isSourceFile(name string) bool {
	ext := path.Ext(name)
	if !sourceExts[ext] {
		return false
	}
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	for _, marker := range []string{".test", ".spec", ".stories", ".story"} {
		if strings.HasSuffix(stem, marker) {
			return false
		}
	}
	return true
}

// rootConfigFiles returns the root-level files whose names start with one of
// the prefixes (tailwind.config.js, postcss.config.cjs, ...), sorted.
func rootConfigFiles(root string, prefixes ...string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(e.Name(), prefix) {
				out = append(out, e.Name())
				break
			}
		}
	}
	return out
}
