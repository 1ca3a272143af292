package cli

import (
	"github.com/spf13/cobra"
)

func newLayoutsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Layout commands",
	}
	cmd.AddCommand(newLayoutsCreateCmd(app))
	cmd.AddCommand(newLayoutsListCmd(app))
	cmd.AddCommand(newLayoutsSwitchCmd(app))
	cmd.AddCommand(newLayoutsDeleteCmd(app))
	return cmd
}

func newLayoutsCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a layout and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			l := m.CreateLayout(name)
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Layout name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLayoutsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": m.Layouts(),
				"meta": map[string]any{"active": m.ActiveID()},
			})
		},
	}
	return cmd
}

func newLayoutsSwitchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch <layout-id>",
		Short: "Make a layout active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.SwitchLayout(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"active": m.ActiveID()}})
		},
	}
	return cmd
}

func newLayoutsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <layout-id>",
		Short: "Delete a layout (no-op if absent; active pointer is repaired)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m.DeleteLayout(args[0])
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"active": m.ActiveID()}})
		},
	}
	return cmd
}
