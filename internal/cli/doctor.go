package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/dashboard"
	"gridboard-cli/internal/model"
	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
)

type doctorFinding struct {
	Level   string `json:"level"` // ok|warn|error
	Check   string `json:"check"`
	Message string `json:"message"`
}

// newDoctorCmd diagnoses the board store: raw key health, the
// active-pointer invariant, overlap and bounds violations introduced by
// trusted batch moves, and widget-scoped keys orphaned by removed
// instances.
func newDoctorCmd(app *App) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the board store",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var findings []doctorFinding
			add := func(level, check, msg string, args ...any) {
				findings = append(findings, doctorFinding{Level: level, Check: check, Message: fmt.Sprintf(msg, args...)})
			}

			add("ok", "store", "dir %s", s.Dir)

			// Raw parse checks surface corruption that Get would silently
			// mask with defaults.
			var layouts []model.DashboardLayout
			if b, ok := s.GetRaw(store.KeyLayouts); ok {
				if err := json.Unmarshal(b, &layouts); err != nil {
					add("error", "layouts", "%s is corrupt: %v", store.KeyLayouts, err)
				} else {
					add("ok", "layouts", "%d layout(s)", len(layouts))
				}
			} else {
				add("ok", "layouts", "no layouts stored yet")
			}

			var active string
			_ = s.Get(store.KeyActiveLayout, &active)
			if active != "" {
				found := false
				for _, l := range layouts {
					if l.ID == active {
						found = true
						break
					}
				}
				if !found {
					if fix {
						m := dashboard.NewManager(s, registry.Builtin())
						_ = s.Set(store.KeyActiveLayout, m.ActiveID())
						add("warn", "active", "active pointer %s referenced a missing layout; repaired to %q", active, m.ActiveID())
					} else {
						add("error", "active", "active pointer %s references a missing layout (run with --fix)", active)
					}
				}
			}

			instanceIDs := map[string]bool{}
			for i := range layouts {
				l := layouts[i]
				for _, inst := range l.Widgets {
					instanceIDs[inst.WidgetID+"-"+inst.ID] = true
					if inst.X < 0 || inst.Y < 0 || inst.X+inst.W > dashboard.GridColumns {
						add("warn", "bounds", "layout %s: %s at (%d,%d) %dx%d exceeds the %d-column grid",
							l.ID, inst.ID, inst.X, inst.Y, inst.W, inst.H, dashboard.GridColumns)
					}
				}
				for _, pair := range dashboard.Overlaps(l.Widgets) {
					add("warn", "overlap", "layout %s: %s and %s overlap", l.ID, pair[0].ID, pair[1].ID)
				}
			}

			// Orphaned widget-scoped keys: config/state/storage left behind
			// after an instance was removed without --purge.
			keys, err := s.Keys()
			if err != nil {
				add("error", "keys", "listing keys: %v", err)
			}
			orphans := 0
			for _, k := range keys {
				pair, ok := widgetScopePair(k)
				if !ok {
					continue
				}
				if !instanceIDs[pair] {
					orphans++
					if fix {
						_ = s.Remove(k)
						add("warn", "orphans", "removed orphaned key %s", k)
					} else {
						add("warn", "orphans", "orphaned key %s (instance gone; run with --fix to remove)", k)
					}
				}
			}
			if orphans == 0 {
				add("ok", "orphans", "no orphaned widget-scoped keys")
			}

			return writeOut(cmd, app, map[string]any{"data": findings})
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair what can be repaired (active pointer, orphaned keys)")
	return cmd
}

// widgetScopePair extracts "<widgetId>-<instanceId>" from a
// widget-config/state/storage key. Instance ids are wi-<8 chars>, so
// the pair is everything up to and including that suffix.
func widgetScopePair(key string) (string, bool) {
	rest := ""
	switch {
	case strings.HasPrefix(key, "widget-config-"):
		rest = strings.TrimPrefix(key, "widget-config-")
	case strings.HasPrefix(key, "widget-state-"):
		rest = strings.TrimPrefix(key, "widget-state-")
	case strings.HasPrefix(key, "widget-storage-"):
		rest = strings.TrimPrefix(key, "widget-storage-")
	default:
		return "", false
	}
	idx := strings.Index(rest, "wi-")
	if idx < 0 {
		return "", false
	}
	end := idx + len("wi-")
	for end < len(rest) && rest[end] != '-' {
		end++
	}
	return rest[:end], true
}
