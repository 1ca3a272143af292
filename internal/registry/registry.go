// Package registry holds the static widget registry: the mapping from
// widget-definition id to its metadata and (optionally) a config
// validation hook. The layout manager consults it only to validate ids
// and fetch default size/config; renderers live with the UI surfaces.
package registry

import (
	"fmt"
	"sort"

	"gridboard-cli/internal/model"
)

// ValidateFunc checks a proposed configuration for a definition. It is
// consumed only by editor surfaces; the layout manager stores config
// opaquely and never calls it.
type ValidateFunc func(cfg map[string]any) error

type Entry struct {
	Definition model.WidgetDefinition
	Validate   ValidateFunc
}

type Registry struct {
	entries map[string]Entry
}

func New() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Register adds or replaces a definition. Empty ids are rejected.
func (r *Registry) Register(e Entry) error {
	if e.Definition.ID == "" {
		return fmt.Errorf("widget definition id is empty")
	}
	if e.Definition.DefaultSize == "" {
		e.Definition.DefaultSize = model.SizeSmall
	}
	r.entries[e.Definition.ID] = e
	return nil
}

func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Definitions returns all definitions sorted by id.
func (r *Registry) Definitions() []model.WidgetDefinition {
	out := make([]model.WidgetDefinition, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Definition)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory returns definitions in the given category, sorted by id.
func (r *Registry) ByCategory(c model.Category) []model.WidgetDefinition {
	var out []model.WidgetDefinition
	for _, d := range r.Definitions() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
