package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/dashboard"
	"gridboard-cli/internal/model"
)

func newWidgetsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "Widget instance commands (operate on the active layout)",
	}
	cmd.AddCommand(newWidgetsAddCmd(app))
	cmd.AddCommand(newWidgetsListCmd(app))
	cmd.AddCommand(newWidgetsShowCmd(app))
	cmd.AddCommand(newWidgetsRemoveCmd(app))
	cmd.AddCommand(newWidgetsUpdateCmd(app))
	cmd.AddCommand(newWidgetsMoveCmd(app))
	cmd.AddCommand(newWidgetsSetConfigCmd(app))
	return cmd
}

func newWidgetsAddCmd(app *App) *cobra.Command {
	var title string
	var size string
	var configJSON string

	cmd := &cobra.Command{
		Use:   "add <definition-id>",
		Short: "Add a widget to the active layout (created if missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := parseConfigJSON(configJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			var sz model.SizeCategory
			if size != "" {
				sz, err = model.ParseSize(size)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			inst, err := m.AddWidgetSized(args[0], title, cfg, sz)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": inst})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Display title (default: definition name)")
	cmd.Flags().StringVar(&size, "size", "", "Size category (small|medium|large; default: definition default)")
	cmd.Flags().StringVar(&configJSON, "config", "", "Initial config as a JSON object (merged over the definition default)")
	return cmd
}

func newWidgetsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List widget instances in the active layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			layout, ok := m.ActiveLayout()
			if !ok {
				return writeOut(cmd, app, map[string]any{"data": []model.WidgetInstance{}})
			}
			return writeOut(cmd, app, map[string]any{
				"data": layout.Widgets,
				"meta": map[string]any{"layout": layout.ID},
			})
		},
	}
	return cmd
}

func newWidgetsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <instance-id>",
		Short: "Show one widget instance (searches all layouts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, l := range m.Layouts() {
				layout := l
				if inst, ok := layout.FindWidget(args[0]); ok {
					return writeOut(cmd, app, map[string]any{
						"data": inst,
						"meta": map[string]any{
							"layout": layout.ID,
							"config": s.LoadWidgetConfig(inst.WidgetID, inst.ID),
						},
					})
				}
			}
			return writeErr(cmd, errNotFound("widget instance", args[0]))
		},
	}
	return cmd
}

func newWidgetsRemoveCmd(app *App) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "remove <instance-id>",
		Short: "Remove a widget from the active layout (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var widgetID string
			if layout, ok := m.ActiveLayout(); ok {
				if inst, ok := layout.FindWidget(args[0]); ok {
					widgetID = inst.WidgetID
				}
			}
			m.RemoveWidget(args[0])
			if purge && widgetID != "" {
				// Widget-scoped keys are an independent store; only an
				// explicit purge touches them.
				s.RemoveWidgetScoped(widgetID, args[0])
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args[0]}})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the instance's widget-config/state/storage keys")
	return cmd
}

func newWidgetsUpdateCmd(app *App) *cobra.Command {
	var title string
	var size string
	var configJSON string

	cmd := &cobra.Command{
		Use:   "update <instance-id>",
		Short: "Merge title/size/config changes into a widget instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			upd := dashboard.WidgetUpdate{}
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if size != "" {
				sz, err := model.ParseSize(size)
				if err != nil {
					return writeErr(cmd, err)
				}
				upd.Size = &sz
			}
			if configJSON != "" {
				cfg, err := parseConfigJSON(configJSON)
				if err != nil {
					return writeErr(cmd, err)
				}
				upd.Config = cfg
			}
			m.UpdateWidget(args[0], upd)
			return showInstance(cmd, app, m, args[0])
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New display title")
	cmd.Flags().StringVar(&size, "size", "", "New size category (small|medium|large)")
	cmd.Flags().StringVar(&configJSON, "config", "", "Config patch as a JSON object (merged; unrelated keys preserved)")
	return cmd
}

func newWidgetsMoveCmd(app *App) *cobra.Command {
	var movesJSON string
	var x, y int

	cmd := &cobra.Command{
		Use:   "move [instance-id]",
		Short: "Batch-apply new positions (trusted as-is, no overlap re-check)",
		Long: strings.TrimSpace(`
Apply new grid positions to widget instances in the active layout.

Single form:  gridboard widgets move wi-abc --x 2 --y 0
Batch form:   gridboard widgets move --batch '[{"id":"wi-abc","x":2,"y":0}]'

Entries whose id matches no instance are ignored. Positions are trusted
as supplied; run gridboard doctor to report overlaps.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var moves []dashboard.PositionUpdate
			switch {
			case movesJSON != "":
				if err := json.Unmarshal([]byte(movesJSON), &moves); err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --batch JSON: %w", err))
				}
			case len(args) == 1:
				moves = []dashboard.PositionUpdate{{ID: args[0], X: x, Y: y}}
			default:
				return writeErr(cmd, fmt.Errorf("either an instance id or --batch is required"))
			}
			m.UpdateWidgetPositions(moves)
			layout, ok := m.ActiveLayout()
			if !ok {
				return writeOut(cmd, app, map[string]any{"data": []model.WidgetInstance{}})
			}
			return writeOut(cmd, app, map[string]any{"data": layout.Widgets})
		},
	}

	cmd.Flags().StringVar(&movesJSON, "batch", "", `JSON array of {"id","x","y"} objects`)
	cmd.Flags().IntVar(&x, "x", 0, "New column (single form)")
	cmd.Flags().IntVar(&y, "y", 0, "New row (single form)")
	return cmd
}

func newWidgetsSetConfigCmd(app *App) *cobra.Command {
	var configJSON string
	var validate bool

	cmd := &cobra.Command{
		Use:   "set-config <instance-id>",
		Short: "Merge settings into the instance's widget-config store",
		Long: strings.TrimSpace(`
Writes to the widget-config-<widgetId>-<instanceId> key, the store owned
by the widget itself. This is independent of the layout's embedded
config (the two may drift); use "widgets update --config" for the
layout-embedded config.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, s, err := loadManager(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			layout, ok := m.ActiveLayout()
			if !ok {
				return writeErr(cmd, errNotFound("widget instance", args[0]))
			}
			inst, ok := layout.FindWidget(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("widget instance", args[0]))
			}
			patch, err := parseConfigJSON(configJSON)
			if err != nil {
				return writeErr(cmd, err)
			}
			if validate {
				// Editor-surface validation; the store itself never validates.
				if entry, ok := m.Registry().Lookup(inst.WidgetID); ok && entry.Validate != nil {
					merged := s.LoadWidgetConfig(inst.WidgetID, inst.ID).Settings
					for k, v := range patch {
						merged[k] = v
					}
					if err := entry.Validate(merged); err != nil {
						return writeErr(cmd, fmt.Errorf("config rejected: %w", err))
					}
				}
			}
			if err := s.MergeWidgetSettings(inst.WidgetID, inst.ID, patch); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s.LoadWidgetConfig(inst.WidgetID, inst.ID)})
		},
	}

	cmd.Flags().StringVar(&configJSON, "config", "", "Settings patch as a JSON object")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().BoolVar(&validate, "validate", false, "Run the definition's validation hook before saving")
	return cmd
}

func showInstance(cmd *cobra.Command, app *App, m *dashboard.Manager, instanceID string) error {
	layout, ok := m.ActiveLayout()
	if !ok {
		return writeErr(cmd, errNotFound("widget instance", instanceID))
	}
	inst, ok := layout.FindWidget(instanceID)
	if !ok {
		return writeErr(cmd, errNotFound("widget instance", instanceID))
	}
	return writeOut(cmd, app, map[string]any{"data": inst})
}

func parseConfigJSON(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(s), &cfg); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}
	return cfg, nil
}
