package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gridboard-cli/internal/boardview"
	"gridboard-cli/internal/dashboard"
	"gridboard-cli/internal/model"
	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
)

type view int

const (
	viewLayouts view = iota
	viewBoard
	viewPicker
	viewNewLayout
)

// storeChangedMsg is delivered when another process writes the store
// dir; the model reloads and keeps watching.
type storeChangedMsg struct {
	change store.Change
}

type appModel struct {
	store   store.Store
	reg     *registry.Registry
	mgr     *dashboard.Manager
	watcher *store.Watcher

	width  int
	height int

	view view

	layoutsList list.Model
	pickerList  list.Model
	nameInput   textinput.Model

	selectedID string // widget instance selected on the board
	moveMode   bool
	showDetail bool
	showDev    bool

	dark             bool
	sidebarCollapsed bool

	status string // one-line transient message in the footer
}

func newAppModel(s store.Store, reg *registry.Registry, w *store.Watcher) appModel {
	m := appModel{
		store:   s,
		reg:     reg,
		mgr:     dashboard.NewManager(s, reg),
		watcher: w,
		view:    viewLayouts,

		dark:             s.GetPref(store.PrefDarkMode, false),
		sidebarCollapsed: s.GetPref(store.PrefSidebarCollapsed, false),
	}

	m.layoutsList = newList("Layouts", "Select a layout", []list.Item{})
	m.pickerList = newList("Widgets", "Pick a widget to add", []list.Item{})

	ti := textinput.New()
	ti.Placeholder = "Layout name"
	ti.CharLimit = 80
	m.nameInput = ti

	m.refreshLayouts()
	m.refreshPicker()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher)
	}
	return nil
}

func waitForChange(w *store.Watcher) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-w.Changes
		if !ok {
			return nil
		}
		return storeChangedMsg{change: c}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case storeChangedMsg:
		// Another process (or a CLI command in another terminal) wrote
		// the store. Reload and keep watching.
		m.reloadFromDisk()
		return m, waitForChange(m.watcher)

	case tea.KeyMsg:
		m.status = ""
		switch m.view {
		case viewNewLayout:
			return m.updateNewLayout(msg)
		case viewPicker:
			return m.updatePicker(msg)
		case viewBoard:
			return m.updateBoard(msg)
		default:
			return m.updateLayouts(msg)
		}
	}

	return m, nil
}

func (m appModel) updateLayouts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is open, keys belong to the filter input.
	if m.layoutsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "n":
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			m.view = viewNewLayout
			return m, textinput.Blink
		case "x":
			if it, ok := m.layoutsList.SelectedItem().(layoutItem); ok {
				m.mgr.DeleteLayout(it.layout.ID)
				m.refreshLayouts()
			}
			return m, nil
		case "d":
			return m.toggleDark()
		case "enter":
			if it, ok := m.layoutsList.SelectedItem().(layoutItem); ok {
				if err := m.mgr.SwitchLayout(it.layout.ID); err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.selectedID = ""
				m.view = viewBoard
				m.refreshLayouts()
			}
			return m, nil
		case "r":
			m.reloadFromDisk()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.layoutsList, cmd = m.layoutsList.Update(msg)
	return m, cmd
}

func (m appModel) updateNewLayout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = viewLayouts
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.status = "layout name cannot be empty"
			return m, nil
		}
		l := m.mgr.CreateLayout(name)
		m.selectedID = ""
		m.view = viewBoard
		m.refreshLayouts()
		selectLayoutItemByID(&m.layoutsList, l.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pickerList.FilterState() != list.Filtering {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			m.view = viewBoard
			return m, nil
		case "enter":
			if it, ok := m.pickerList.SelectedItem().(definitionItem); ok {
				inst, err := m.mgr.AddWidget(it.def.ID, "", nil)
				if err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.selectedID = inst.ID
				m.view = viewBoard
				m.refreshLayouts()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.pickerList, cmd = m.pickerList.Update(msg)
	return m, cmd
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow every key except their dismissors.
	if m.showDetail || m.showDev {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "enter", "q", "`":
			m.showDetail = false
			m.showDev = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		if m.moveMode {
			m.moveMode = false
			return m, nil
		}
		m.view = viewLayouts
		m.refreshLayouts()
		return m, nil
	case "a":
		m.refreshPicker()
		m.view = viewPicker
		return m, nil
	case "x":
		if m.selectedID != "" {
			m.mgr.RemoveWidget(m.selectedID)
			m.selectedID = ""
		}
		return m, nil
	case "m":
		if m.selectedID != "" {
			m.moveMode = !m.moveMode
		}
		return m, nil
	case "enter":
		if m.selectedID != "" {
			m.showDetail = true
		}
		return m, nil
	case "`":
		m.showDev = !m.showDev
		_ = m.store.SetPref(store.PrefDevtoolsVisible, m.showDev)
		return m, nil
	case "s":
		m.sidebarCollapsed = !m.sidebarCollapsed
		_ = m.store.SetPref(store.PrefSidebarCollapsed, m.sidebarCollapsed)
		return m, nil
	case "d":
		return m.toggleDark()
	case "r":
		m.reloadFromDisk()
		return m, nil
	case "left", "h":
		return m.moveOrSelect(-1, 0), nil
	case "right", "l":
		return m.moveOrSelect(1, 0), nil
	case "up", "k":
		return m.moveOrSelect(0, -1), nil
	case "down", "j":
		return m.moveOrSelect(0, 1), nil
	case "tab":
		return m.selectNext(1), nil
	case "shift+tab":
		return m.selectNext(-1), nil
	}
	return m, nil
}

func (m appModel) toggleDark() (tea.Model, tea.Cmd) {
	m.dark = !m.dark
	_ = m.store.SetPref(store.PrefDarkMode, m.dark)
	return m, nil
}

// moveOrSelect moves the selected widget one cell in move mode and
// otherwise walks the selection in reading order.
func (m appModel) moveOrSelect(dx, dy int) appModel {
	if !m.moveMode {
		step := dx
		if step == 0 {
			step = dy
		}
		return m.selectNext(step)
	}

	layout, ok := m.mgr.ActiveLayout()
	if !ok {
		return m
	}
	inst, ok := layout.FindWidget(m.selectedID)
	if !ok {
		m.moveMode = false
		return m
	}
	x, y := inst.X+dx, inst.Y+dy
	if x < 0 {
		x = 0
	}
	if x+inst.W > dashboard.GridColumns {
		x = dashboard.GridColumns - inst.W
	}
	if y < 0 {
		y = 0
	}
	m.mgr.UpdateWidgetPositions([]dashboard.PositionUpdate{{ID: inst.ID, X: x, Y: y}})
	return m
}

// selectNext walks the widgets of the active layout in reading order
// (top-left to bottom-right), wrapping at the ends.
func (m appModel) selectNext(step int) appModel {
	layout, ok := m.mgr.ActiveLayout()
	if !ok || len(layout.Widgets) == 0 {
		m.selectedID = ""
		return m
	}
	order := append([]model.WidgetInstance{}, layout.Widgets...)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Y != order[j].Y {
			return order[i].Y < order[j].Y
		}
		return order[i].X < order[j].X
	})
	cur := -1
	for i, inst := range order {
		if inst.ID == m.selectedID {
			cur = i
			break
		}
	}
	next := (cur + step + len(order)) % len(order)
	if cur < 0 {
		next = 0
	}
	m.selectedID = order[next].ID
	return m
}

func (m appModel) View() string {
	active, hasActive := m.mgr.ActiveLayout()
	title := "no active layout"
	if hasActive {
		title = fmt.Sprintf("%s  (%s)", active.Name, active.ID)
	}
	header := headerStyle.Render("Gridboard  " + title)

	var body string
	switch m.view {
	case viewLayouts:
		body = m.layoutsList.View()
	case viewPicker:
		body = m.pickerList.View()
	case viewNewLayout:
		body = "New layout\n\n" + m.nameInput.View()
	case viewBoard:
		body = m.viewBoard(active, hasActive)
	}

	footer := footerStyle.Render(m.footerHelp())
	if m.status != "" {
		footer = alertStyle.Render(m.status)
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) footerHelp() string {
	switch m.view {
	case viewLayouts:
		return "enter: open  n: new  x: delete  d: dark  r: reload  q: quit"
	case viewPicker:
		return "enter: add  /: filter  esc: back"
	case viewNewLayout:
		return "enter: create  esc: cancel"
	default:
		if m.moveMode {
			return "arrows: move widget  m/esc: done"
		}
		return "arrows/tab: select  m: move  a: add  x: remove  enter: detail  s: sidebar  `: devtools  esc: back  q: quit"
	}
}

func (m appModel) viewBoard(active *model.DashboardLayout, hasActive bool) string {
	if !hasActive {
		return "No active layout. Press esc and create one with n."
	}
	if m.showDetail {
		return m.viewDetail(active)
	}
	if m.showDev {
		return m.viewDevtools()
	}

	grid := boardview.Render(active, boardview.Options{
		SelectedID: m.selectedID,
		Dark:       m.dark,
		Body:       boardview.BuiltinBody,
		CategoryFor: func(widgetID string) model.Category {
			if e, ok := m.reg.Lookup(widgetID); ok {
				return e.Definition.Category
			}
			return model.CategoryTools
		},
	})

	if m.sidebarCollapsed {
		return grid
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(active.ID), grid)
}

func (m appModel) viewSidebar(activeID string) string {
	var b strings.Builder
	b.WriteString("Layouts\n")
	for _, l := range m.mgr.Layouts() {
		name := l.Name
		if len(name) > 16 {
			name = name[:15] + "…"
		}
		if l.ID == activeID {
			b.WriteString(sidebarActiveStyle.Render("» "+name) + "\n")
		} else {
			b.WriteString("  " + name + "\n")
		}
	}
	return sidebarStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m appModel) viewDetail(layout *model.DashboardLayout) string {
	inst, ok := layout.FindWidget(m.selectedID)
	if !ok {
		return overlayStyle.Render("widget gone")
	}

	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", inst.Title)
	if e, ok := m.reg.Lookup(inst.WidgetID); ok && e.Definition.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", e.Definition.Description)
	}
	fmt.Fprintf(&md, "`%s` · %s · cell (%d,%d) · %dx%d\n", inst.ID, inst.Size, inst.X, inst.Y, inst.W, inst.H)
	if len(inst.Config) > 0 {
		cfg, err := json.MarshalIndent(inst.Config, "", "  ")
		if err == nil {
			fmt.Fprintf(&md, "\n```json\n%s\n```\n", cfg)
		}
	}
	return overlayStyle.Render(renderMarkdown(md.String(), width, m.dark))
}

// viewDevtools lists raw store keys plus the event log tail, the
// inspection surface for debugging persisted state.
func (m appModel) viewDevtools() string {
	var b strings.Builder
	b.WriteString("Store keys\n")
	keys, err := m.store.Keys()
	if err != nil {
		b.WriteString("  (error: " + err.Error() + ")\n")
	}
	for _, k := range keys {
		size := 0
		if raw, ok := m.store.GetRaw(k); ok {
			size = len(raw)
		}
		fmt.Fprintf(&b, "  %-40s %6d bytes\n", k, size)
	}

	b.WriteString("\nRecent events\n")
	events, err := m.store.ReadEventsTail(8)
	if err != nil || len(events) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, ev := range events {
		fmt.Fprintf(&b, "  %s  %-14s %s\n", ev.TS.Format("15:04:05"), ev.Type, ev.EntityID)
	}
	return overlayStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *appModel) resizeLists() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.layoutsList.SetSize(w, h)
	m.pickerList.SetSize(w, h)
}

func (m *appModel) refreshLayouts() {
	curID := ""
	if it, ok := m.layoutsList.SelectedItem().(layoutItem); ok {
		curID = it.layout.ID
	}
	var items []list.Item
	for _, l := range m.mgr.Layouts() {
		items = append(items, layoutItem{layout: l, active: l.ID == m.mgr.ActiveID()})
	}
	m.layoutsList.SetItems(items)
	if curID != "" {
		selectLayoutItemByID(&m.layoutsList, curID)
	}
	if len(items) == 0 {
		m.layoutsList.SetStatusBarItemName("layout", "layouts")
	}
}

func (m *appModel) refreshPicker() {
	var items []list.Item
	for _, def := range m.reg.Definitions() {
		items = append(items, definitionItem{def: def})
	}
	m.pickerList.SetItems(items)
}

// reloadFromDisk rebuilds the manager from the persisted keys so edits
// made by CLI commands in another terminal are reflected.
func (m *appModel) reloadFromDisk() {
	m.mgr = dashboard.NewManager(m.store, m.reg)
	m.dark = m.store.GetPref(store.PrefDarkMode, m.dark)
	m.sidebarCollapsed = m.store.GetPref(store.PrefSidebarCollapsed, m.sidebarCollapsed)
	if layout, ok := m.mgr.ActiveLayout(); ok {
		if _, found := layout.FindWidget(m.selectedID); !found {
			m.selectedID = ""
			m.moveMode = false
		}
	} else {
		m.selectedID = ""
		m.moveMode = false
	}
	m.refreshLayouts()
}
