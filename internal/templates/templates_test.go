package templates

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

func sampleConfig() Config {
	return Config{
		Name:        "admin-dashboard",
		Description: "Admin UI",
		Version:     "1.0.0",
		Source:      Source{Repository: "https://github.com/acme/admin.git", Branch: "main"},
		Components: Components{
			Required: []string{"src/App.tsx", "src/pages/Home.tsx"},
			Optional: []string{"src/components/Unused.tsx"},
		},
		Routes: []Route{
			{Path: "/", Component: "Home", Layout: "Layout"},
			{Path: "/admin", Component: "Admin", Protected: true},
		},
		Dependencies:  map[string]string{"react": "^18.2.0", "lodash": "^4.17.0"},
		Modules:       []string{"router", "styles-tailwind"},
		Customization: Customization{Theme: true, Layout: true},
	}
}

func TestCreateLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "admin-dashboard")

	created, err := Create(dir, sampleConfig())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, SourceDirName)); err != nil {
		t.Errorf("src directory missing: %v", err)
	}
	if created.CreatedAt().IsZero() || !created.UpdatedAt().Equal(created.CreatedAt()) {
		t.Errorf("timestamps = %v / %v", created.CreatedAt(), created.UpdatedAt())
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(loaded.Config(), created.Config()) {
		t.Errorf("loaded config = %+v\nwant %+v", loaded.Config(), created.Config())
	}
	if loaded.Dir() != created.Dir() {
		t.Errorf("Dir() = %q, want %q", loaded.Dir(), created.Dir())
	}
}

func TestCreate_DefaultsName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "from-dir")
	tmpl, err := Create(dir, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Name() != "from-dir" {
		t.Errorf("Name() = %q, want %q", tmpl.Name(), "from-dir")
	}
}

func TestCreate_Unwritable(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Create(filepath.Join(blocker, "tmpl"), Config{})
	if !errors.IsIO(err) {
		t.Errorf("error = %v, want IO error", err)
	}
}

func TestConfigFile_KeyOrderAndEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(dir, Config{Name: "empty"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	keys := []string{`"name"`, `"description"`, `"version"`, `"source"`, `"components"`,
		`"routes"`, `"dependencies"`, `"modules"`, `"customization"`, `"createdAt"`, `"updatedAt"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(text, k)
		if i < 0 {
			t.Fatalf("key %s missing in\n%s", k, text)
		}
		if i < last {
			t.Errorf("key %s out of order", k)
		}
		last = i
	}

	for _, want := range []string{`"routes": []`, `"dependencies": {}`, `"modules": []`, `"required": []`, `"optional": []`} {
		if !strings.Contains(text, want) {
			t.Errorf("config file missing %s:\n%s", want, text)
		}
	}
	if strings.Contains(text, "null") {
		t.Errorf("config file contains null:\n%s", text)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("config is not valid JSON: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.IsNotFound(err) {
		t.Errorf("missing config: error = %v, want not found", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(dir)
	if !errors.IsValidation(err) {
		t.Errorf("broken config: error = %v, want validation", err)
	}
}

func TestUpdateConfig_DescriptionOnly(t *testing.T) {
	restore := now
	defer func() { now = restore }()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now = func() time.Time { return clock }

	dir := t.TempDir()
	tmpl, err := Create(dir, sampleConfig())
	if err != nil {
		t.Fatal(err)
	}
	before := tmpl.Config()

	clock = clock.Add(time.Minute)
	desc := "Rewritten"
	if err := tmpl.UpdateConfig(ConfigUpdate{Description: &desc}); err != nil {
		t.Fatalf("UpdateConfig error: %v", err)
	}

	after := tmpl.Config()
	if after.Description != "Rewritten" {
		t.Errorf("Description = %q", after.Description)
	}
	if !after.UpdatedAt.Equal(clock) {
		t.Errorf("UpdatedAt = %v, want %v", after.UpdatedAt, clock)
	}

	// Everything except the description and updatedAt is unchanged.
	after.Description = before.Description
	after.UpdatedAt = before.UpdatedAt
	if !reflect.DeepEqual(after, before) {
		t.Errorf("other fields changed:\n%+v\n%+v", after, before)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reloaded.Config(), tmpl.Config()) {
		t.Error("disk and memory disagree after update")
	}
}

func TestUpdateConfig_ReplacesNestedValues(t *testing.T) {
	tmpl, err := Create(t.TempDir(), sampleConfig())
	if err != nil {
		t.Fatal(err)
	}

	routes := []Route{{Path: "/only", Component: "Only"}}
	custom := Customization{Auth: true}
	if err := tmpl.UpdateConfig(ConfigUpdate{Routes: &routes, Customization: &custom}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tmpl.Routes(), routes) {
		t.Errorf("Routes() = %+v, want %+v", tmpl.Routes(), routes)
	}
	if tmpl.Customization() != custom {
		t.Errorf("Customization() = %+v, want %+v", tmpl.Customization(), custom)
	}

	// The caller's slice is not shared with the template.
	routes[0].Path = "/mutated"
	if tmpl.Routes()[0].Path != "/only" {
		t.Error("UpdateConfig kept a reference to the caller's slice")
	}
}

func TestUpdateConfig_RollbackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := Create(dir, sampleConfig())
	if err != nil {
		t.Fatal(err)
	}
	before := tmpl.Config()

	// A non-empty directory in place of the config file makes the rename fail.
	cfgPath := filepath.Join(dir, ConfigFileName)
	if err := os.Remove(cfgPath); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(cfgPath, "blocker"), 0755); err != nil {
		t.Fatal(err)
	}

	desc := "never written"
	err = tmpl.UpdateConfig(ConfigUpdate{Description: &desc})
	if !errors.IsIO(err) {
		t.Fatalf("error = %v, want IO error", err)
	}
	if !reflect.DeepEqual(tmpl.Config(), before) {
		t.Error("in-memory config changed after failed write")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "."+ConfigFileName) {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	tmpl, err := Create(t.TempDir(), sampleConfig())
	if err != nil {
		t.Fatal(err)
	}

	deps := tmpl.Dependencies()
	deps["react"] = "0.0.0"
	deps["evil"] = "1.0.0"

	routes := tmpl.Routes()
	routes[0].Component = "Hacked"

	comps := tmpl.Components()
	comps.Required[0] = "hacked.tsx"

	mods := tmpl.Modules()
	mods[0] = "hacked"

	cfg := tmpl.Config()
	cfg.Dependencies["react"] = "1.0.0"

	fresh := sampleConfig()
	if !reflect.DeepEqual(tmpl.Dependencies(), fresh.Dependencies) {
		t.Errorf("Dependencies() = %v", tmpl.Dependencies())
	}
	if !reflect.DeepEqual(tmpl.Routes(), fresh.Routes) {
		t.Errorf("Routes() = %v", tmpl.Routes())
	}
	if !reflect.DeepEqual(tmpl.Components(), fresh.Components) {
		t.Errorf("Components() = %v", tmpl.Components())
	}
	if !reflect.DeepEqual(tmpl.Modules(), fresh.Modules) {
		t.Errorf("Modules() = %v", tmpl.Modules())
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := Create(dir, sampleConfig())
	if err != nil {
		t.Fatal(err)
	}

	other, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	v := "2.0.0"
	if err := other.UpdateConfig(ConfigUpdate{Version: &v}); err != nil {
		t.Fatal(err)
	}

	if tmpl.Version() != "1.0.0" {
		t.Errorf("cached Version() = %q before reload", tmpl.Version())
	}
	if err := tmpl.Reload(); err != nil {
		t.Fatal(err)
	}
	if tmpl.Version() != "2.0.0" {
		t.Errorf("Version() = %q after reload, want 2.0.0", tmpl.Version())
	}
}

func TestCopyTo_Exclusions(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := Create(filepath.Join(dir, "tmpl"), sampleConfig())
	if err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"src/App.tsx":                        "export default function App() {}\n",
		"src/layout/Shell.tsx":               "export const Shell = 1;\n",
		"src/node_modules/pkg/index.js":      "sentinel\n",
		"node_modules/react/index.js":        "sentinel\n",
		"dist/bundle.js":                     "sentinel\n",
		"src/components/build/output.js":     "sentinel\n",
		".git/HEAD":                          "sentinel\n",
		"src/.next/cache":                    "sentinel\n",
		"src/outline/Item.tsx":               "export const Item = 1;\n",
	}
	for name, content := range files {
		p := filepath.Join(tmpl.Dir(), filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	dst := filepath.Join(dir, "project")
	if err := tmpl.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo error: %v", err)
	}

	for _, want := range []string{ConfigFileName, "src/App.tsx", "src/layout/Shell.tsx", "src/outline/Item.tsx"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(want))); err != nil {
			t.Errorf("%s not copied: %v", want, err)
		}
	}

	err = filepath.WalkDir(dst, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if string(data) == "sentinel\n" {
			t.Errorf("excluded file copied: %s", p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCopySource(t *testing.T) {
	app := t.TempDir()
	if err := os.MkdirAll(filepath.Join(app, "pages"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(app, "pages", "Home.tsx"), []byte("home"), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := Create(filepath.Join(t.TempDir(), "tmpl"), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := tmpl.CopySource(app); err != nil {
		t.Fatalf("CopySource error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tmpl.Dir(), SourceDirName, "pages", "Home.tsx"))
	if err != nil || string(data) != "home" {
		t.Errorf("copied file = %q, %v", data, err)
	}

	if err := tmpl.CopySource(filepath.Join(app, "missing")); !errors.IsIO(err) {
		t.Errorf("missing source: error = %v, want IO error", err)
	}
}

func TestDestroy(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmpl")
	tmpl, err := Create(dir, sampleConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := tmpl.Destroy(); err != nil {
		t.Fatalf("Destroy error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists: %v", err)
	}
	if !tmpl.Destroyed() {
		t.Error("Destroyed() = false")
	}

	desc := "x"
	checks := map[string]error{
		"UpdateConfig": tmpl.UpdateConfig(ConfigUpdate{Description: &desc}),
		"Reload":       tmpl.Reload(),
		"CopyTo":       tmpl.CopyTo(t.TempDir()),
		"CopySource":   tmpl.CopySource(t.TempDir()),
		"Destroy":      tmpl.Destroy(),
	}
	for name, err := range checks {
		if !errors.IsNotFound(err) {
			t.Errorf("%s after Destroy: error = %v, want not found", name, err)
		}
	}
}

func TestDiff(t *testing.T) {
	old := sampleConfig()
	updated := old.Clone()
	updated.Description = "Changed"

	out, err := Diff(old, updated)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `-   "description": "Admin UI",`) {
		t.Errorf("diff missing removal:\n%s", out)
	}
	if !strings.Contains(out, `+   "description": "Changed",`) {
		t.Errorf("diff missing addition:\n%s", out)
	}
	if !strings.Contains(out, `    "name": "admin-dashboard",`) {
		t.Errorf("diff missing context:\n%s", out)
	}
	if n := changedLines(out); n != 2 {
		t.Errorf("diff changed %d lines, want 2:\n%s", n, out)
	}

	updated.Version = "2.0.0"
	out, err = Diff(old, updated)
	if err != nil {
		t.Fatal(err)
	}
	if n := changedLines(out); n != 4 {
		t.Errorf("diff changed %d lines, want 4:\n%s", n, out)
	}
	if !strings.Contains(out, `-   "version": "1.0.0",`) || !strings.Contains(out, `+   "version": "2.0.0",`) {
		t.Errorf("diff missing version change:\n%s", out)
	}

	same, err := Diff(old, old.Clone())
	if err != nil {
		t.Fatal(err)
	}
	if same != "" {
		t.Errorf("Diff of equal configs = %q, want empty", same)
	}
}

func changedLines(diff string) int {
	n := 0
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "+ ") {
			n++
		}
	}
	return n
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"admin-dashboard", true},
		{"a", true},
		{"app_2", true},
		{"0day", true},
		{"", false},
		{"-leading", false},
		{"Upper", false},
		{"has space", false},
		{"dots.no", false},
		{"../escape", false},
		{strings.Repeat("a", 63), true},
		{strings.Repeat("a", 64), false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateName(%q) error = %v, valid %v", tt.name, err, tt.valid)
		}
		if err != nil && !errors.IsValidation(err) {
			t.Errorf("ValidateName(%q) error category = %q", tt.name, errors.CategoryOf(err))
		}
	}
}

func TestIsExcluded(t *testing.T) {
	tests := map[string]bool{
		"node_modules":           true,
		"src/node_modules/x.js":  true,
		"dist":                   true,
		"src/layout/Header.tsx":  false,
		"src/output/file.js":     false,
		"src/rebuild.js":         false,
		"a/.git/config":          true,
		filepath.Join("a", "out"): true,
	}
	for in, want := range tests {
		if got := IsExcluded(in); got != want {
			t.Errorf("IsExcluded(%q) = %v, want %v", in, got, want)
		}
	}
}
