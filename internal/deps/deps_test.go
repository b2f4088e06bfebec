package deps

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

func TestResolveVersionConflict(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"numeric not lexical", "1.2.0", "1.10.0", "1.10.0"},
		{"first greater", "2.0.0", "1.9.9", "2.0.0"},
		{"caret vs tilde tie keeps first", "^1.2.0", "~1.2.0", "^1.2.0"},
		{"tilde vs caret tie keeps first", "~1.2.0", "^1.2.0", "~1.2.0"},
		{"prefix styles ignored", "~1.3.0", "^1.2.9", "~1.3.0"},
		{"framework newer", "^18.0.0", "^18.2.0", "^18.2.0"},
		{"missing components are zero", "1.2", "1.2.0", "1.2"},
		{"extra component decides", "1.2", "1.2.1", "1.2.1"},
		{"non-numeric is zero", "latest", "0.0.1", "0.0.1"},
		{"prerelease leading digits", "1.0.0-beta.2", "1.0.1", "1.0.1"},
		{"gte operator", ">=2.1.0", "2.0.5", ">=2.1.0"},
		{"v prefix", "v3.0.0", "2.9.0", "v3.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveVersionConflict(tt.a, tt.b); got != tt.want {
				t.Errorf("ResolveVersionConflict(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStripRange(t *testing.T) {
	tests := map[string]string{
		"^1.2.3":   "1.2.3",
		"~1.2.3":   "1.2.3",
		">= 1.2.3": "1.2.3",
		"=1.0":     "1.0",
		" 4.0.0 ":  "4.0.0",
		"1.0.0":    "1.0.0",
	}
	for in, want := range tests {
		if got := StripRange(in); got != want {
			t.Errorf("StripRange(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMergeDependencies(t *testing.T) {
	app := map[string]string{"react": "^18.0.0", "lodash": "^4.17.0"}
	framework := map[string]string{"react": "^18.2.0"}

	got := MergeDependencies(app, framework)
	want := map[string]string{"react": "^18.2.0", "lodash": "^4.17.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeDependencies = %v, want %v", got, want)
	}

	// Inputs are untouched.
	if !reflect.DeepEqual(app, map[string]string{"react": "^18.0.0", "lodash": "^4.17.0"}) {
		t.Errorf("app deps mutated: %v", app)
	}
	if !reflect.DeepEqual(framework, map[string]string{"react": "^18.2.0"}) {
		t.Errorf("framework deps mutated: %v", framework)
	}
}

func TestMergeDependencies_TieKeepsAppSpelling(t *testing.T) {
	got := MergeDependencies(
		map[string]string{"zustand": "~4.5.0"},
		map[string]string{"zustand": "^4.5.0"},
	)
	if got["zustand"] != "~4.5.0" {
		t.Errorf("zustand = %q, want %q", got["zustand"], "~4.5.0")
	}
}

func TestMergeDependencies_Idempotent(t *testing.T) {
	cases := []struct {
		app, framework map[string]string
	}{
		{
			map[string]string{"react": "^18.0.0", "lodash": "^4.17.0"},
			map[string]string{"react": "^18.2.0"},
		},
		{
			map[string]string{"a": "~1.2.0", "b": "2.0.0", "c": "latest"},
			map[string]string{"a": "^1.2.0", "b": "1.10.0", "d": "0.1.0"},
		},
		{nil, map[string]string{"x": "1"}},
		{map[string]string{"x": "1"}, nil},
		{nil, nil},
	}

	for i, c := range cases {
		once := MergeDependencies(c.app, c.framework)
		twice := MergeDependencies(once, c.framework)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("[%d] merge not idempotent: %v vs %v", i, once, twice)
		}
	}
}

func TestExtractDependencies(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "name": "fixture",
  "dependencies": {"react": "^18.0.0", "shared": "2.0.0"},
  "devDependencies": {"vitest": "^1.0.0", "shared": "1.0.0"}
}`
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{"react": "^18.0.0", "shared": "2.0.0", "vitest": "^1.0.0"}

	for _, path := range []string{dir, filepath.Join(dir, ManifestFileName)} {
		got, err := ExtractDependencies(path)
		if err != nil {
			t.Fatalf("ExtractDependencies(%q) error: %v", path, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractDependencies(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExtractDependencies_MissingManifest(t *testing.T) {
	for _, path := range []string{t.TempDir(), filepath.Join(t.TempDir(), "nope", ManifestFileName)} {
		got, err := ExtractDependencies(path)
		if err != nil {
			t.Fatalf("ExtractDependencies(%q) error: %v", path, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ExtractDependencies(%q) = %v, want empty map", path, got)
		}
	}
}

func TestExtractDependencies_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ExtractDependencies(dir)
	if !errors.IsValidation(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestFilterFrameworkDependencies(t *testing.T) {
	app := map[string]string{"react": "^18.0.0", "lodash": "^4.17.0", "axios": "^1.0.0"}
	got := FilterFrameworkDependencies(app, []string{"react", "axios", "unused"})
	want := map[string]string{"lodash": "^4.17.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterFrameworkDependencies = %v, want %v", got, want)
	}
	if len(app) != 3 {
		t.Error("input mutated")
	}
}

func TestGetCriticalPackages(t *testing.T) {
	in := map[string]string{
		"@radix-ui/react-dialog": "^1.0.0",
		"recharts":               "^2.0.0",
		"react-hook-form":        "^7.0.0",
		"zod":                    "^3.0.0",
		"date-fns":               "^3.0.0",
		"clsx":                   "^2.0.0",
		"react":                  "^18.0.0",
		"lodash":                 "^4.17.0",
	}
	got := GetCriticalPackages(in)
	for _, name := range []string{"@radix-ui/react-dialog", "recharts", "react-hook-form", "zod", "date-fns", "clsx"} {
		if _, ok := got[name]; !ok {
			t.Errorf("%s should be critical", name)
		}
	}
	for _, name := range []string{"react", "lodash"} {
		if _, ok := got[name]; ok {
			t.Errorf("%s should not be critical", name)
		}
	}
}

func TestFrameworkDependencies(t *testing.T) {
	fw, err := FrameworkDependencies("")
	if err != nil {
		t.Fatalf("FrameworkDependencies error: %v", err)
	}
	if fw["react"] == "" {
		t.Error("embedded framework set should declare react")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(`{"dependencies":{"preact":"10.0.0"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	custom, err := FrameworkDependencies(filepath.Join(dir, ManifestFileName))
	if err != nil {
		t.Fatalf("FrameworkDependencies(custom) error: %v", err)
	}
	if !reflect.DeepEqual(custom, map[string]string{"preact": "10.0.0"}) {
		t.Errorf("custom = %v", custom)
	}
}

func TestNames(t *testing.T) {
	got := Names(map[string]string{"b": "1", "a": "2"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names = %v", got)
	}
}
