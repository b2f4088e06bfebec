package main

import (
	"log/slog"
	"path/filepath"
	"sort"
	"testing"

	"github.com/vhvplatform/react-framework-sub001/internal/config"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/acme/Shop-Front.git", "shop-front"},
		{"git@github.com:acme/admin_panel.git", "admin_panel"},
		{"./apps/My Dashboard/", "my-dashboard"},
		{"/srv/apps/store", "store"},
	}
	for _, tt := range tests {
		if got := deriveName(tt.in); got != tt.want {
			t.Errorf("deriveName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := deriveName("."); templates.ValidateName(got) != nil && got != "" {
		t.Errorf("deriveName(.) = %q is neither valid nor empty", got)
	}
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	want := []string{"analyze", "import", "remote", "serve", "template", "version"}
	for _, w := range want {
		i := sort.SearchStrings(names, w)
		if i == len(names) || names[i] != w {
			t.Errorf("missing command %q in %v", w, names)
		}
	}
}

func useTestConfig(t *testing.T) {
	t.Helper()
	cfg = config.New()
	cfg.TemplatesDir = filepath.Join(t.TempDir(), "templates")
	logger = slog.Default()
}

func TestTemplateUpdate_DryRunWritesNothing(t *testing.T) {
	useTestConfig(t)
	reg := newRegistry()
	if _, err := templates.Create(reg.Path("shop"), templates.Config{Description: "old", Version: "1.0.0"}); err != nil {
		t.Fatal(err)
	}

	desc := "new"
	if err := runTemplateUpdate("shop", templates.ConfigUpdate{Description: &desc}, true); err != nil {
		t.Fatalf("dry run error: %v", err)
	}
	tmpl, err := reg.Get("shop")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Description() != "old" {
		t.Errorf("Description = %q after dry run", tmpl.Description())
	}

	if err := runTemplateUpdate("shop", templates.ConfigUpdate{Description: &desc}, false); err != nil {
		t.Fatalf("update error: %v", err)
	}
	if err := tmpl.Reload(); err != nil {
		t.Fatal(err)
	}
	if tmpl.Description() != "new" || tmpl.Version() != "1.0.0" {
		t.Errorf("after update: description %q version %q", tmpl.Description(), tmpl.Version())
	}
}

func TestNewRemote_RequiresBucket(t *testing.T) {
	useTestConfig(t)
	if _, err := newRemote(); err == nil {
		t.Error("newRemote without bucket should fail")
	}
	cfg.Remote.Bucket = "templates-bucket"
	if _, err := newRemote(); err != nil {
		t.Errorf("newRemote error: %v", err)
	}
}
