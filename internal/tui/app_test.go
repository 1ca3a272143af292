package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gridboard-cli/internal/dashboard"
	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
)

func newTestApp(t *testing.T) (appModel, store.Store) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	m := newAppModel(s, registry.Builtin(), nil)
	m.width = 120
	m.height = 40
	m.resizeLists()
	return m, s
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(appModel)
		if !ok {
			t.Fatalf("Update returned %T, want appModel", next)
		}
	}
	return m
}

func typeText(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func TestCreateLayoutFlow(t *testing.T) {
	m, s := newTestApp(t)

	if m.view != viewLayouts {
		t.Fatalf("initial view = %v, want layouts", m.view)
	}

	m = press(t, m, "n")
	if m.view != viewNewLayout {
		t.Fatalf("view after n = %v, want new-layout prompt", m.view)
	}

	// Empty name is rejected.
	m = press(t, m, "enter")
	if m.view != viewNewLayout || m.status == "" {
		t.Fatalf("empty name accepted (view=%v status=%q)", m.view, m.status)
	}

	m = typeText(t, m, "Ops")
	m = press(t, m, "enter")
	if m.view != viewBoard {
		t.Fatalf("view after create = %v, want board", m.view)
	}
	layout, ok := m.mgr.ActiveLayout()
	if !ok || layout.Name != "Ops" {
		t.Fatalf("active layout = %#v", layout)
	}

	// The new layout is persisted, not just in memory.
	reloaded := dashboard.NewManager(s, registry.Builtin())
	if got, ok := reloaded.ActiveLayout(); !ok || got.Name != "Ops" {
		t.Fatalf("layout not persisted: %#v", got)
	}
}

func TestCancelNewLayoutPrompt(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Scrapped")
	m = press(t, m, "esc")
	if m.view != viewLayouts {
		t.Fatalf("view after esc = %v, want layouts", m.view)
	}
	if len(m.mgr.Layouts()) != 0 {
		t.Fatalf("cancelled prompt created a layout")
	}
}

func TestAddWidgetViaPicker(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")

	m = press(t, m, "a")
	if m.view != viewPicker {
		t.Fatalf("view after a = %v, want picker", m.view)
	}
	if len(m.pickerList.Items()) != 5 {
		t.Fatalf("picker items = %d, want the 5 builtin definitions", len(m.pickerList.Items()))
	}

	m = press(t, m, "enter")
	if m.view != viewBoard {
		t.Fatalf("view after pick = %v, want board", m.view)
	}
	layout, _ := m.mgr.ActiveLayout()
	if len(layout.Widgets) != 1 {
		t.Fatalf("widgets after pick = %d, want 1", len(layout.Widgets))
	}
	if m.selectedID != layout.Widgets[0].ID {
		t.Fatalf("new widget not selected: %q vs %q", m.selectedID, layout.Widgets[0].ID)
	}

	// Esc leaves the picker without adding.
	m = press(t, m, "a", "esc")
	layout, _ = m.mgr.ActiveLayout()
	if m.view != viewBoard || len(layout.Widgets) != 1 {
		t.Fatalf("esc from picker added a widget")
	}
}

func TestBoardSelectionCycles(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")
	m = press(t, m, "a", "enter", "a", "enter") // two widgets

	layout, _ := m.mgr.ActiveLayout()
	if len(layout.Widgets) != 2 {
		t.Fatalf("widgets = %d, want 2", len(layout.Widgets))
	}

	first := m.selectedID
	m = press(t, m, "tab")
	if m.selectedID == first {
		t.Fatalf("tab did not advance the selection")
	}
	m = press(t, m, "tab")
	if m.selectedID != first {
		t.Fatalf("selection did not wrap around")
	}
}

func TestMoveModePersistsPosition(t *testing.T) {
	m, s := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")
	m = press(t, m, "a", "enter")

	id := m.selectedID
	m = press(t, m, "m")
	if !m.moveMode {
		t.Fatalf("m did not enter move mode")
	}
	m = press(t, m, "right", "down")

	layout, _ := m.mgr.ActiveLayout()
	inst, _ := layout.FindWidget(id)
	if inst.X != 1 || inst.Y != 1 {
		t.Fatalf("position after moves = (%d,%d), want (1,1)", inst.X, inst.Y)
	}

	// Moving left past the edge clamps at column 0.
	m = press(t, m, "left", "left", "left")
	layout, _ = m.mgr.ActiveLayout()
	inst, _ = layout.FindWidget(id)
	if inst.X != 0 {
		t.Fatalf("x after clamped moves = %d, want 0", inst.X)
	}

	m = press(t, m, "esc")
	if m.moveMode {
		t.Fatalf("esc did not leave move mode")
	}
	if m.view != viewBoard {
		t.Fatalf("esc from move mode left the board view")
	}

	// Moves went through the manager, so they are persisted.
	reloaded := dashboard.NewManager(s, registry.Builtin())
	got, _ := reloaded.ActiveLayout()
	persisted, ok := got.FindWidget(id)
	if !ok || persisted.X != 0 || persisted.Y != 1 {
		t.Fatalf("persisted position = %#v, want (0,1)", persisted)
	}
}

func TestRemoveWidgetKey(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")
	m = press(t, m, "a", "enter")

	m = press(t, m, "x")
	layout, _ := m.mgr.ActiveLayout()
	if len(layout.Widgets) != 0 {
		t.Fatalf("x did not remove the selected widget")
	}
	if m.selectedID != "" {
		t.Fatalf("selection kept after removal: %q", m.selectedID)
	}
}

func TestTogglesPersistPrefs(t *testing.T) {
	m, s := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")

	m = press(t, m, "s")
	if !m.sidebarCollapsed {
		t.Fatalf("s did not collapse the sidebar")
	}
	if !s.GetPref(store.PrefSidebarCollapsed, false) {
		t.Fatalf("sidebar pref not persisted")
	}

	m = press(t, m, "d")
	if !m.dark {
		t.Fatalf("d did not enable dark mode")
	}
	if !s.GetPref(store.PrefDarkMode, false) {
		t.Fatalf("dark-mode pref not persisted")
	}
}

func TestDevtoolsOverlay(t *testing.T) {
	m, s := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")

	m = press(t, m, "`")
	if !m.showDev {
		t.Fatalf("backtick did not open devtools")
	}
	if !s.GetPref(store.PrefDevtoolsVisible, false) {
		t.Fatalf("devtools pref not persisted")
	}
	if out := m.View(); !strings.Contains(out, "Store keys") {
		t.Fatalf("devtools overlay not rendered:\n%s", out)
	}

	m = press(t, m, "esc")
	if m.showDev {
		t.Fatalf("esc did not close devtools")
	}
	if m.view != viewBoard {
		t.Fatalf("closing the overlay left the board view")
	}
}

func TestDetailOverlay(t *testing.T) {
	m, _ := newTestApp(t)

	m = press(t, m, "n")
	m = typeText(t, m, "Board")
	m = press(t, m, "enter")
	m = press(t, m, "a", "enter")

	m = press(t, m, "enter")
	if !m.showDetail {
		t.Fatalf("enter did not open the detail overlay")
	}
	layout, _ := m.mgr.ActiveLayout()
	if out := m.View(); !strings.Contains(out, layout.Widgets[0].ID) {
		t.Fatalf("detail overlay missing instance id:\n%s", out)
	}
	m = press(t, m, "esc")
	if m.showDetail {
		t.Fatalf("esc did not close the detail overlay")
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	m, s := newTestApp(t)

	// Another process creates a layout behind the model's back.
	other := dashboard.NewManager(s, registry.Builtin())
	other.CreateLayout("External")

	m = press(t, m, "r")
	if len(m.mgr.Layouts()) != 1 {
		t.Fatalf("reload did not pick up the external layout")
	}
	if len(m.layoutsList.Items()) != 1 {
		t.Fatalf("layouts list not refreshed after reload")
	}
}

func TestStoreChangedMsgReloads(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	w, err := s.Watch(store.KeyLayouts, store.KeyActiveLayout)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	m := newAppModel(s, registry.Builtin(), w)
	other := dashboard.NewManager(s, registry.Builtin())
	other.CreateLayout("External")

	next, cmd := m.Update(storeChangedMsg{change: store.Change{Kind: store.ChangeSet}})
	m = next.(appModel)
	if len(m.mgr.Layouts()) != 1 {
		t.Fatalf("store change did not reload the manager")
	}
	if cmd == nil {
		t.Fatalf("store change handler must re-arm the watch")
	}
}

func TestViewSmoke(t *testing.T) {
	m, _ := newTestApp(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(appModel)

	if out := m.View(); !strings.Contains(out, "Gridboard") {
		t.Fatalf("header missing:\n%s", out)
	}

	m = press(t, m, "n")
	m = typeText(t, m, "Ops")
	m = press(t, m, "enter")
	m = press(t, m, "a", "enter")

	out := m.View()
	if !strings.Contains(out, "Ops") {
		t.Fatalf("board view missing layout name:\n%s", out)
	}
}
