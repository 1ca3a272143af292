package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/boardview"
	"gridboard-cli/internal/model"
	"gridboard-cli/internal/store"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Board rendering commands",
	}
	cmd.AddCommand(newBoardShowCmd(app))
	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	var layoutID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the active layout's grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var layout *model.DashboardLayout
			if layoutID != "" {
				l, ok := m.FindLayout(layoutID)
				if !ok {
					return writeErr(cmd, errNotFound("layout", layoutID))
				}
				layout = l
			} else {
				l, ok := m.ActiveLayout()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No active layout. Create one with: gridboard layouts create --name <name>")
					return nil
				}
				layout = l
			}

			reg := m.Registry()
			out := boardview.Render(layout, boardview.Options{
				Dark: s.GetPref(store.PrefDarkMode, false),
				Body: boardview.BuiltinBody,
				CategoryFor: func(widgetID string) model.Category {
					if e, ok := reg.Lookup(widgetID); ok {
						return e.Definition.Category
					}
					return model.CategoryTools
				},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n\n%s\n", layout.Name, layout.ID, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutID, "layout", "", "Render a specific layout instead of the active one")
	return cmd
}
