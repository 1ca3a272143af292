package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
)

// Run starts the interactive board browser. Change notifications are
// best-effort: on backends that cannot watch (sqlite) the TUI still
// works, refreshed manually with r.
func Run(s store.Store, reg *registry.Registry) error {
	applyColorProfilePreference()

	w, err := s.Watch(store.KeyLayouts, store.KeyActiveLayout)
	if err != nil && !errors.Is(err, store.ErrWatchUnsupported) {
		return err
	}
	if w != nil {
		defer w.Stop()
	}

	m := newAppModel(s, reg, w)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
