// Package dashboard owns the collection of dashboard layouts and the
// active-layout pointer, and funnels every mutation through its
// operations. State is held in memory and persisted best-effort through
// the store under the dashboard-layouts / current-dashboard-layout keys.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gridboard-cli/internal/model"
	"gridboard-cli/internal/registry"
	"gridboard-cli/internal/store"
)

// NotFoundError is the only failure class the manager surfaces: unknown
// layout id on switch, unknown definition id on add, and so on. All
// other failure modes degrade to best-effort persistence.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// DefaultLayoutName is used when a widget is added with no layout yet.
const DefaultLayoutName = "Default Layout"

type Manager struct {
	store    store.Store
	registry *registry.Registry

	layouts  []model.DashboardLayout
	activeID string
}

// NewManager loads persisted layouts and the active pointer. Missing or
// corrupt state degrades to an empty manager rather than failing, per
// the store's fail-soft contract. A dangling active pointer is repaired
// on load.
func NewManager(s store.Store, reg *registry.Registry) *Manager {
	m := &Manager{store: s, registry: reg}
	if !s.Get(store.KeyLayouts, &m.layouts) {
		m.layouts = []model.DashboardLayout{}
	}
	_ = s.Get(store.KeyActiveLayout, &m.activeID)
	m.repairActive()
	return m
}

// Layouts returns the layout list. Callers must treat it as read-only.
func (m *Manager) Layouts() []model.DashboardLayout {
	return m.layouts
}

func (m *Manager) ActiveID() string {
	return m.activeID
}

// ActiveLayout returns the active layout, if any.
func (m *Manager) ActiveLayout() (*model.DashboardLayout, bool) {
	return m.findLayout(m.activeID)
}

func (m *Manager) FindLayout(id string) (*model.DashboardLayout, bool) {
	return m.findLayout(id)
}

func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// CreateLayout allocates a new empty layout and makes it active.
// Always succeeds; ids are random, not timestamp-derived, so rapid
// calls cannot collide.
func (m *Manager) CreateLayout(name string) model.DashboardLayout {
	now := time.Now().UTC()
	id, err := store.NewID("lay")
	if err != nil {
		// crypto/rand failure; fall back to a time-derived id.
		id = fmt.Sprintf("lay-%d", now.UnixNano())
	}
	l := model.DashboardLayout{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Widgets:   []model.WidgetInstance{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.layouts = append(m.layouts, l)
	m.activeID = l.ID
	m.save()
	_ = m.store.AppendEvent("layout.create", l.ID, l)
	return l
}

// SwitchLayout points the active pointer at id. On NotFound the pointer
// is left unchanged.
func (m *Manager) SwitchLayout(id string) error {
	if _, ok := m.findLayout(id); !ok {
		return NotFoundError{Kind: "layout", ID: id}
	}
	m.activeID = id
	m.save()
	_ = m.store.AppendEvent("layout.switch", id, nil)
	return nil
}

// DeleteLayout removes the layout with the given id. Deleting an absent
// id is a no-op. If the active layout is deleted the pointer moves to
// the first remaining layout, or clears when none remain.
func (m *Manager) DeleteLayout(id string) {
	idx := -1
	for i := range m.layouts {
		if m.layouts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.layouts = append(m.layouts[:idx], m.layouts[idx+1:]...)
	if m.activeID == id {
		m.activeID = ""
		if len(m.layouts) > 0 {
			m.activeID = m.layouts[0].ID
		}
	}
	m.save()
	_ = m.store.AppendEvent("layout.delete", id, nil)
}

// AddWidget places a new instance of the given definition into the
// active layout, creating a default layout first when none is active.
// Position is computed by first-fit placement; the no-overlap invariant
// is enforced here and only here.
func (m *Manager) AddWidget(definitionID, title string, config map[string]any) (model.WidgetInstance, error) {
	return m.AddWidgetSized(definitionID, title, config, "")
}

// AddWidgetSized is AddWidget with an explicit size category override.
func (m *Manager) AddWidgetSized(definitionID, title string, config map[string]any, size model.SizeCategory) (model.WidgetInstance, error) {
	entry, ok := m.registry.Lookup(definitionID)
	if !ok {
		return model.WidgetInstance{}, NotFoundError{Kind: "widget definition", ID: definitionID}
	}
	def := entry.Definition

	layout, ok := m.ActiveLayout()
	if !ok {
		created := m.CreateLayout(DefaultLayoutName)
		layout, _ = m.findLayout(created.ID)
	}

	if size == "" {
		size = def.DefaultSize
	}
	w, h := size.Footprint()

	if title = strings.TrimSpace(title); title == "" {
		title = def.Name
	}

	// Instance config starts from the definition default; explicit keys
	// override. The manager stores it opaquely from here on.
	cfg := map[string]any{}
	for k, v := range def.DefaultCfg {
		cfg[k] = v
	}
	for k, v := range config {
		cfg[k] = v
	}

	id, err := store.NewID("wi")
	if err != nil {
		id = fmt.Sprintf("wi-%d", time.Now().UnixNano())
	}

	x, y := findPosition(layout.Widgets, w, h)
	inst := model.WidgetInstance{
		ID:       id,
		WidgetID: def.ID,
		Title:    title,
		Size:     size,
		X:        x,
		Y:        y,
		W:        w,
		H:        h,
		Config:   cfg,
	}
	layout.Widgets = append(layout.Widgets, inst)
	layout.UpdatedAt = time.Now().UTC()
	m.save()
	_ = m.store.AppendEvent("widget.add", inst.ID, inst)
	return inst, nil
}

// RemoveWidget deletes the instance from the active layout. Idempotent:
// removing an unknown id is a no-op. Survivors keep their positions;
// removal never repacks.
func (m *Manager) RemoveWidget(instanceID string) {
	layout, ok := m.ActiveLayout()
	if !ok {
		return
	}
	idx := -1
	for i := range layout.Widgets {
		if layout.Widgets[i].ID == instanceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	layout.Widgets = append(layout.Widgets[:idx], layout.Widgets[idx+1:]...)
	layout.UpdatedAt = time.Now().UTC()
	m.save()
	_ = m.store.AppendEvent("widget.remove", instanceID, nil)
}

// WidgetUpdate is a partial update; nil fields are left untouched.
// Config keys merge into the existing config (unrelated keys are
// preserved); a size change recomputes the stored footprint.
type WidgetUpdate struct {
	Title  *string
	Size   *model.SizeCategory
	X, Y   *int
	Config map[string]any
}

// UpdateWidget merges the update into the matching instance in the
// active layout. Unknown ids are a no-op.
func (m *Manager) UpdateWidget(instanceID string, upd WidgetUpdate) {
	layout, ok := m.ActiveLayout()
	if !ok {
		return
	}
	inst, ok := layout.FindWidget(instanceID)
	if !ok {
		return
	}
	if upd.Title != nil {
		inst.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Size != nil {
		inst.Size = *upd.Size
		inst.W, inst.H = inst.Size.Footprint()
	}
	if upd.X != nil {
		inst.X = *upd.X
	}
	if upd.Y != nil {
		inst.Y = *upd.Y
	}
	if len(upd.Config) > 0 {
		if inst.Config == nil {
			inst.Config = map[string]any{}
		}
		for k, v := range upd.Config {
			inst.Config[k] = v
		}
	}
	layout.UpdatedAt = time.Now().UTC()
	m.save()
	_ = m.store.AppendEvent("widget.update", instanceID, inst)
}

// PositionUpdate assigns a new top-left cell to one instance.
type PositionUpdate struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// UpdateWidgetPositions batch-applies new positions. Entries whose id
// matches no instance are ignored. Supplied geometry is trusted as-is
// and not re-validated against the overlap invariant; see Overlaps for
// the diagnostic pass.
func (m *Manager) UpdateWidgetPositions(moves []PositionUpdate) {
	layout, ok := m.ActiveLayout()
	if !ok {
		return
	}
	changed := false
	for _, mv := range moves {
		inst, ok := layout.FindWidget(mv.ID)
		if !ok {
			continue
		}
		inst.X = mv.X
		inst.Y = mv.Y
		changed = true
	}
	if !changed {
		return
	}
	layout.UpdatedAt = time.Now().UTC()
	m.save()
	_ = m.store.AppendEvent("widget.move", layout.ID, moves)
}

func (m *Manager) findLayout(id string) (*model.DashboardLayout, bool) {
	if strings.TrimSpace(id) == "" {
		return nil, false
	}
	for i := range m.layouts {
		if m.layouts[i].ID == id {
			return &m.layouts[i], true
		}
	}
	return nil, false
}

// repairActive enforces the invariant that a non-empty active pointer
// references a present layout.
func (m *Manager) repairActive() {
	if m.activeID == "" {
		return
	}
	if _, ok := m.findLayout(m.activeID); ok {
		return
	}
	m.activeID = ""
	if len(m.layouts) > 0 {
		m.activeID = m.layouts[0].ID
	}
}

// save persists both keys best-effort. The in-memory state is already
// updated; a write failure costs durability, not consistency.
func (m *Manager) save() {
	_ = m.store.Set(store.KeyLayouts, m.layouts)
	_ = m.store.Set(store.KeyActiveLayout, m.activeID)
}
