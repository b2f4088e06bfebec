package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{"yaml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.IsValidation(err) {
		t.Errorf("ParseFormat(xml) error = %v, want validation", err)
	}
}

func TestEncode_YAMLKeepsJSONKeys(t *testing.T) {
	cfg := templates.Config{
		Name:         "shop",
		Version:      "1.0.0",
		Routes:       []templates.Route{{Path: "/", Component: "Home"}},
		Dependencies: map[string]string{"react": "^18.2.0"},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cfg, FormatYAML); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"name: shop\n", "- path: /\n", "react: ^18.2.0", "createdAt:"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "name:") > strings.Index(out, "version:") {
		t.Errorf("key order not preserved:\n%s", out)
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string]int{"a": 1}, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("JSON = %q", buf.String())
	}
	if err := Encode(&buf, 1, FormatText); err == nil {
		t.Error("text format should not encode values")
	}
}

func TestSummary(t *testing.T) {
	r := &analyzer.Result{
		Root:      "/apps/shop",
		SourceDir: "src",
		Components: []analyzer.ComponentInfo{
			{Name: "Home", FilePath: "src/Home.tsx", HasState: true},
		},
		Routes: []analyzer.RouteInfo{
			{Path: "/", Component: "Home", ComponentPath: "src/Home.tsx"},
			{Path: "/admin", Component: "Admin", Protected: true},
		},
		StateManagement: analyzer.StateManagement{Kind: analyzer.StateZustand, Libraries: []string{"zustand"}},
		StyleSystem:     analyzer.StyleSystem{Kind: analyzer.StyleTailwind},
		APIEndpoints:    []string{"/api/cart"},
		Unanalyzable:    []string{"src/blob.js"},
	}

	var buf bytes.Buffer
	if err := Summary(&buf, r, map[string]string{"zod": "^3.0.0"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Components (1)", "[state]", "Admin -> (unresolved) protected",
		"State management: zustand (zustand)", "tailwind", "/api/cart",
		"zod@^3.0.0", "src/blob.js", "best-effort",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
