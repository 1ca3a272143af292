package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"gridboard-cli/internal/model"
)

type layoutItem struct {
	layout model.DashboardLayout
	active bool
}

func (it layoutItem) FilterValue() string { return it.layout.Name + " " + it.layout.ID }

func (it layoutItem) Title() string {
	if it.active {
		return it.layout.Name + "  ●"
	}
	return it.layout.Name
}

func (it layoutItem) Description() string {
	return fmt.Sprintf("%s · %d widget(s)", it.layout.ID, len(it.layout.Widgets))
}

type definitionItem struct {
	def model.WidgetDefinition
}

func (it definitionItem) FilterValue() string { return it.def.Name + " " + it.def.ID }

func (it definitionItem) Title() string { return it.def.Name }

func (it definitionItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", it.def.ID, it.def.Category, it.def.DefaultSize)
}

func newList(title, help string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func selectLayoutItemByID(l *list.Model, id string) {
	for i := 0; i < len(l.Items()); i++ {
		if it, ok := l.Items()[i].(layoutItem); ok && it.layout.ID == id {
			l.Select(i)
			return
		}
	}
}
