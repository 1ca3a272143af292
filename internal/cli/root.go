package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/dashboard"
	"gridboard-cli/internal/format"
	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
	"gridboard-cli/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "gridboard",
		Short:        "Local-first dashboard grid manager (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  gridboard

  # Scriptable commands
  gridboard layouts create --name Ops
  gridboard widgets add status-widget --title Health
  gridboard board show

  # Direct instance lookup (shortcut for: gridboard widgets show <instance-id>)
  gridboard wi-vth4k2aa
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("GRIDBOARD_DIR", ""), "Path to board store dir (default: discovered .gridboard or ~/.gridboard/default)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("GRIDBOARD_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newLayoutsCmd(app))
	cmd.AddCommand(newWidgetsCmd(app))
	cmd.AddCommand(newRegistryCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newDevtoolsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openStore(app)
	if err != nil {
		return err
	}
	return tui.Run(s, registry.Builtin())
}

func openStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

// loadManager opens the store and the layout manager over the builtin
// widget registry.
func loadManager(app *App) (*dashboard.Manager, store.Store, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	return dashboard.NewManager(s, registry.Builtin()), s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
