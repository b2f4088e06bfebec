// Package report renders analysis results and template configs for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vhvplatform/react-framework-sub001/internal/analyzer"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "text", "json", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Newf(errors.CategoryValidation, "unknown output format %q", s).
		WithSuggestion("Use one of: text, json, yaml")
}

// Encode writes v as pretty JSON or YAML. YAML output goes through the JSON
// encoding so keys keep their JSON names and order.
func Encode(w io.Writer, v any, format Format) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return err
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("report: format %q cannot encode values", format)
}

// blockStyle clears the flow and quoting styles the JSON input implies, so
// the encoder picks plain block YAML.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Notice is printed with every human-readable analysis.
const Notice = "Component, state and effect detection is best-effort static analysis; review the result before relying on it."

// Summary writes a human-readable overview of an analysis. additions are the
// app packages the framework does not provide.
func Summary(w io.Writer, r *analyzer.Result, additions map[string]string) error {
	p := &printer{w: w}
	p.printf("Analyzed %s (source directory %s)\n\n", r.Root, r.SourceDir)

	p.printf("Components (%d)\n", len(r.Components))
	for _, c := range r.Components {
		var flags []string
		if c.HasState {
			flags = append(flags, "state")
		}
		if c.HasEffects {
			flags = append(flags, "effects")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		p.printf("  %-28s %s%s\n", c.Name, c.FilePath, suffix)
	}

	p.printf("\nRoutes (%d)\n", len(r.Routes))
	for _, rt := range r.Routes {
		target := rt.ComponentPath
		if target == "" {
			target = "(unresolved)"
		}
		extra := ""
		if rt.Protected {
			extra += " protected"
		}
		if rt.Layout != "" {
			extra += " layout=" + rt.Layout
		}
		p.printf("  %-28s %s -> %s%s\n", rt.Path, rt.Component, target, extra)
	}

	p.printf("\nState management: %s", r.StateManagement.Kind)
	if len(r.StateManagement.Libraries) > 0 {
		p.printf(" (%s)", strings.Join(r.StateManagement.Libraries, ", "))
	}
	p.printf("\nStyle system:     %s\n", r.StyleSystem.Kind)

	if len(r.APIEndpoints) > 0 {
		p.printf("\nAPI endpoints (%d)\n", len(r.APIEndpoints))
		for _, e := range r.APIEndpoints {
			p.printf("  %s\n", e)
		}
	}

	if len(additions) > 0 {
		p.printf("\nApp-specific dependencies (%d)\n", len(additions))
		for _, name := range sortedKeys(additions) {
			p.printf("  %s@%s\n", name, additions[name])
		}
	}

	if len(r.Unanalyzable) > 0 {
		p.printf("\nSkipped files (%d)\n", len(r.Unanalyzable))
		for _, f := range r.Unanalyzable {
			p.printf("  %s\n", f)
		}
	}

	p.printf("\nNote: %s\n", Notice)
	return p.err
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
