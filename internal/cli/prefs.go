package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/store"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Preference flag commands (dark-mode, sidebar-collapsed, devtools-visible, dashboard-mode)",
	}
	cmd.AddCommand(newPrefsGetCmd(app))
	cmd.AddCommand(newPrefsSetCmd(app))
	return cmd
}

func newPrefsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show one or all preference flags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				key := args[0]
				if !store.IsPrefKey(key) {
					return writeErr(cmd, fmt.Errorf("unknown preference key: %q", key))
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]bool{key: s.GetPref(key, false)}})
			}
			out := map[string]bool{}
			for _, key := range store.PrefKeys() {
				out[key] = s.GetPref(key, false)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newPrefsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Set a preference flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid value %q (expected true|false)", args[1]))
			}
			if err := s.SetPref(args[0], v); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]bool{args[0]: v}})
		},
	}
	return cmd
}
