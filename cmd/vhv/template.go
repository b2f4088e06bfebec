package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/report"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "t"},
		Short:   "Manage imported templates",
		Long: `Manage the templates in the registry.

Commands:
  list     List templates
  show     Print a template's config
  update   Change a template's description or version
  copy     Copy a template to another directory
  remove   Delete a template`,
	}

	cmd.AddCommand(
		templateListCmd(),
		templateShowCmd(),
		templateUpdateCmd(),
		templateCopyCmd(),
		templateRemoveCmd(),
	)

	return cmd
}

func templateListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateList(format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")

	return cmd
}

func runTemplateList(formatName string) error {
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	metas, err := newRegistry().ListTemplateMetadata()
	if err != nil {
		return err
	}
	if format != report.FormatText {
		return report.Encode(os.Stdout, metas, format)
	}

	if len(metas) == 0 {
		fmt.Println("  No templates yet. Import one with:")
		fmt.Println()
		fmt.Println("    vhv import ./my-app --name my-app")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tROUTES\tCOMPONENTS\tUPDATED\tDESCRIPTION")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			m.Name, m.Version, m.Routes, m.Components, m.UpdatedAt.Format("2006-01-02 15:04"), m.Description)
	}
	return w.Flush()
}

func templateShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == report.FormatText {
				f = report.FormatJSON
			}
			tmpl, err := newRegistry().Get(args[0])
			if err != nil {
				return err
			}
			return report.Encode(os.Stdout, tmpl.Config(), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")

	return cmd
}

func templateUpdateCmd() *cobra.Command {
	var (
		description string
		version     string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Change a template's description or version",
		Long: `Update top-level fields of a template's config. Only the flags given
are changed. With --dry-run the change is shown as a diff and not written.

Examples:
  vhv template update shop --description "Storefront with cart"
  vhv template update shop --template-version 1.1.0 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u templates.ConfigUpdate
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("template-version") {
				u.Version = &version
			}
			return runTemplateUpdate(args[0], u, dryRun)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&version, "template-version", "", "New version")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the change without writing it")

	return cmd
}

func runTemplateUpdate(name string, u templates.ConfigUpdate, dryRun bool) error {
	if u.Description == nil && u.Version == nil {
		warn("Nothing to update; pass --description or --template-version")
		return nil
	}
	tmpl, err := newRegistry().Get(name)
	if err != nil {
		return err
	}

	before := tmpl.Config()
	after := before.Clone()
	if u.Description != nil {
		after.Description = *u.Description
	}
	if u.Version != nil {
		after.Version = *u.Version
	}
	diff, err := templates.Diff(before, after)
	if err != nil {
		return err
	}
	if diff == "" {
		info("No changes")
		return nil
	}
	fmt.Print(diff)

	if dryRun {
		info("Dry run; nothing written")
		return nil
	}
	if err := tmpl.UpdateConfig(u); err != nil {
		return err
	}
	success("Updated template '%s'", name)
	return nil
}

func templateCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <name> <dir>",
		Short: "Copy a template to another directory",
		Long: `Copy a template's files to dir. Dependency and build directories
(node_modules, dist, .next, ...) are never copied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := newRegistry().Get(args[0])
			if err != nil {
				return err
			}
			if err := tmpl.CopyTo(args[1]); err != nil {
				return err
			}
			success("Copied '%s' to %s", args[0], args[1])
			return nil
		},
	}
}

func templateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newRegistry().Remove(args[0]); err != nil {
				return err
			}
			success("Removed template '%s'", args[0])
			return nil
		},
	}
}
