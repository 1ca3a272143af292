package registry

import (
	"fmt"

	"gridboard-cli/internal/model"
)

// Builtin returns the registry of demo widgets shipped with the tool.
func Builtin() *Registry {
	r := New()

	_ = r.Register(Entry{
		Definition: model.WidgetDefinition{
			ID:          "status-widget",
			Name:        "Status",
			Description: "Shows a single status indicator.\n\nSet `label` and `status` (`ok`, `warn`, `down`) in the widget config.",
			Version:     "1.0.0",
			Author:      "gridboard",
			Category:    model.CategoryTools,
			Icon:        "●",
			DefaultSize: model.SizeSmall,
			DefaultCfg: map[string]any{
				"label":  "Service",
				"status": "ok",
			},
		},
		Validate: func(cfg map[string]any) error {
			if v, ok := cfg["status"]; ok {
				s, _ := v.(string)
				switch s {
				case "ok", "warn", "down":
				default:
					return fmt.Errorf("status must be ok|warn|down, got %v", v)
				}
			}
			return nil
		},
	})

	_ = r.Register(Entry{
		Definition: model.WidgetDefinition{
			ID:          "analytics-chart",
			Name:        "Analytics Chart",
			Description: "Renders a bar sparkline from the `series` config value (a list of numbers).",
			Version:     "1.0.0",
			Author:      "gridboard",
			Category:    model.CategoryAnalytics,
			Icon:        "▁▃▅",
			DefaultSize: model.SizeMedium,
			DefaultCfg: map[string]any{
				"series": []any{3.0, 5.0, 2.0, 8.0, 6.0, 9.0, 4.0},
				"unit":   "req/s",
			},
		},
		Validate: func(cfg map[string]any) error {
			if v, ok := cfg["series"]; ok {
				if _, ok := v.([]any); !ok {
					return fmt.Errorf("series must be a list of numbers")
				}
			}
			return nil
		},
	})

	_ = r.Register(Entry{
		Definition: model.WidgetDefinition{
			ID:          "data-table",
			Name:        "Data Table",
			Description: "Displays tabular rows from the `rows` config value (a list of `{cols: [...]}` objects, first row rendered as header).",
			Version:     "1.0.0",
			Author:      "gridboard",
			Category:    model.CategoryData,
			Icon:        "▤",
			DefaultSize: model.SizeLarge,
			DefaultCfg: map[string]any{
				"rows": []any{
					map[string]any{"cols": []any{"Name", "Value"}},
					map[string]any{"cols": []any{"example", "42"}},
				},
			},
		},
	})

	_ = r.Register(Entry{
		Definition: model.WidgetDefinition{
			ID:          "quick-menu",
			Name:        "Quick Menu",
			Description: "A list of shortcut entries from the `items` config value (a list of strings).",
			Version:     "1.0.0",
			Author:      "gridboard",
			Category:    model.CategoryTools,
			Icon:        "≡",
			DefaultSize: model.SizeSmall,
			DefaultCfg: map[string]any{
				"items": []any{"Home", "Reports", "Settings"},
			},
		},
	})

	_ = r.Register(Entry{
		Definition: model.WidgetDefinition{
			ID:          "markdown-note",
			Name:        "Markdown Note",
			Description: "Renders the `text` config value as markdown.",
			Version:     "1.0.0",
			Author:      "gridboard",
			Category:    model.CategoryCustom,
			Icon:        "✎",
			DefaultSize: model.SizeLarge,
			DefaultCfg: map[string]any{
				"text": "# Note\n\nEdit this widget's config to change me.",
			},
		},
	})

	return r
}
