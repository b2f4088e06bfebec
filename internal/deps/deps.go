package deps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// ManifestFileName is the package manifest read by ExtractDependencies.
const ManifestFileName = "package.json"

// Manifest is the subset of package.json the resolver reads.
type Manifest struct {
	Name            string            `json:"name,omitempty"`
	Version         string            `json:"version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Flatten returns devDependencies and dependencies as one map. Dependencies
// are applied second and win on name collisions.
func (m *Manifest) Flatten() map[string]string {
	out := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies))
	for name, version := range m.DevDependencies {
		out[name] = version
	}
	for name, version := range m.Dependencies {
		out[name] = version
	}
	return out
}

// ParseManifest decodes a package.json document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ExtractDependencies reads the manifest at path and returns its flattened
// dependency map. path may be the manifest itself or a directory containing
// package.json. A missing manifest yields an empty map and no error.
func ExtractDependencies(path string) (map[string]string, error) {
	manifestPath := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		manifestPath = filepath.Join(path, ManifestFileName)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.New("E404").WithPath(manifestPath).Wrap(err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.New("E204").
			WithPath(manifestPath).
			WithDetail(err.Error())
	}
	return m.Flatten(), nil
}

// MergeDependencies returns a new map that starts from frameworkDeps and adds
// every entry of appDeps, resolving names present in both with
// ResolveVersionConflict(app, framework). Neither input is modified.
func MergeDependencies(appDeps, frameworkDeps map[string]string) map[string]string {
	merged := Clone(frameworkDeps)
	for name, appVersion := range appDeps {
		if fwVersion, ok := merged[name]; ok {
			merged[name] = ResolveVersionConflict(appVersion, fwVersion)
			continue
		}
		merged[name] = appVersion
	}
	return merged
}

// ResolveVersionConflict returns whichever of a and b denotes the greater
// version, as its original string. Range operators are stripped before the
// comparison. Equal versions resolve to a.
func ResolveVersionConflict(a, b string) string {
	if CompareVersions(a, b) < 0 {
		return b
	}
	return a
}

// CompareVersions compares two version-range strings component-wise after
// stripping range operators. Missing and non-numeric components count as 0.
func CompareVersions(a, b string) int {
	pa, pb := versionParts(a), versionParts(b)
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

// rangePrefixes are stripped, repeatedly, from the front of a version.
var rangePrefixes = []string{"^", "~", ">=", "<=", ">", "<", "=", "v"}

// StripRange removes leading range operators and whitespace from v.
func StripRange(v string) string {
	v = strings.TrimSpace(v)
	for {
		trimmed := false
		for _, p := range rangePrefixes {
			if strings.HasPrefix(v, p) {
				v = strings.TrimSpace(strings.TrimPrefix(v, p))
				trimmed = true
			}
		}
		if !trimmed {
			return v
		}
	}
}

func versionParts(v string) []int {
	v = StripRange(v)
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i] = leadingInt(f)
	}
	return parts
}

// leadingInt parses the leading decimal digits of s; "0-beta" -> 0, "x" -> 0.
func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// FilterFrameworkDependencies returns the entries of appDeps whose names are
// not in frameworkPackages.
func FilterFrameworkDependencies(appDeps map[string]string, frameworkPackages []string) map[string]string {
	exclude := make(map[string]struct{}, len(frameworkPackages))
	for _, name := range frameworkPackages {
		exclude[name] = struct{}{}
	}
	out := make(map[string]string)
	for name, version := range appDeps {
		if _, skip := exclude[name]; skip {
			continue
		}
		out[name] = version
	}
	return out
}

// criticalPatterns mark packages that are usually specific to the app being
// adapted: UI primitives, charts, forms, validation, dates, class names.
var criticalPatterns = []string{
	"@radix-ui", "@headlessui", "@mui", "antd", "chakra", "lucide", "icons",
	"recharts", "chart", "d3",
	"react-hook-form", "formik",
	"zod", "yup", "joi",
	"date-fns", "dayjs", "moment",
	"clsx", "classnames", "tailwind-merge", "class-variance-authority",
}

// GetCriticalPackages returns the entries of deps whose name contains one of
// the critical patterns. The match is a name heuristic only.
func GetCriticalPackages(deps map[string]string) map[string]string {
	out := make(map[string]string)
	for name, version := range deps {
		for _, p := range criticalPatterns {
			if strings.Contains(name, p) {
				out[name] = version
				break
			}
		}
	}
	return out
}

// Clone returns a copy of deps. A nil map clones to an empty one.
func Clone(deps map[string]string) map[string]string {
	out := make(map[string]string, len(deps))
	for k, v := range deps {
		out[k] = v
	}
	return out
}

// Names returns the sorted package names of deps.
func Names(deps map[string]string) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
