package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"gridboard-cli/internal/model"
	"gridboard-cli/internal/registry"
)

func newRegistryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Widget registry commands",
	}
	cmd.AddCommand(newRegistryListCmd(app))
	cmd.AddCommand(newRegistryShowCmd(app))
	return cmd
}

func newRegistryListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered widget definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Builtin()
			defs := reg.Definitions()
			if category != "" {
				c, err := model.ParseCategory(category)
				if err != nil {
					return writeErr(cmd, err)
				}
				defs = reg.ByCategory(c)
			}
			return writeOut(cmd, app, map[string]any{"data": defs})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (analytics|data|tools|custom)")
	return cmd
}

func newRegistryShowCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <definition-id>",
		Short: "Show one widget definition (description rendered as markdown)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Builtin()
			entry, ok := reg.Lookup(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("widget definition", args[0]))
			}
			if raw {
				return writeOut(cmd, app, map[string]any{"data": entry.Definition})
			}
			d := entry.Definition
			md := fmt.Sprintf("# %s %s\n\n`%s` · %s · %s · v%s\n\n%s\n",
				d.Icon, d.Name, d.ID, d.Category, d.DefaultSize, d.Version, d.Description)
			out, err := renderMarkdown(md)
			if err != nil {
				// Unstyled fallback keeps the command usable on odd terminals.
				out = md
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "json", false, "Emit the definition as JSON instead of rendered markdown")
	return cmd
}

func renderMarkdown(md string) (string, error) {
	// Fixed style; WithAutoStyle can block on terminal queries in some setups.
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
