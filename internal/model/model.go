package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of widget categories shown in pickers.
type Category string

const (
	CategoryAnalytics Category = "analytics"
	CategoryData      Category = "data"
	CategoryTools     Category = "tools"
	CategoryCustom    Category = "custom"
)

func Categories() []Category {
	return []Category{CategoryAnalytics, CategoryData, CategoryTools, CategoryCustom}
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analytics":
		return CategoryAnalytics, nil
	case "data":
		return CategoryData, nil
	case "tools":
		return CategoryTools, nil
	case "custom":
		return CategoryCustom, nil
	default:
		return "", fmt.Errorf("invalid category: %q (expected analytics|data|tools|custom)", s)
	}
}

// SizeCategory maps to a fixed footprint in grid cells.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"  // 1x1
	SizeMedium SizeCategory = "medium" // 2x1
	SizeLarge  SizeCategory = "large"  // 2x2
)

func ParseSize(s string) (SizeCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("invalid size: %q (expected small|medium|large)", s)
	}
}

// Footprint returns the width/height in grid cells for the size category.
// Unknown sizes fall back to 1x1 so stale stored data stays renderable.
func (s SizeCategory) Footprint() (w, h int) {
	switch s {
	case SizeMedium:
		return 2, 1
	case SizeLarge:
		return 2, 2
	default:
		return 1, 1
	}
}

// WidgetDefinition is an immutable registry entry (a widget kind).
type WidgetDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     string         `json:"version,omitempty"`
	Author      string         `json:"author,omitempty"`
	Category    Category       `json:"category"`
	Icon        string         `json:"icon,omitempty"`
	DefaultSize SizeCategory   `json:"defaultSize"`
	DefaultCfg  map[string]any `json:"defaultConfig,omitempty"`
}

// WidgetInstance is one placed, configured occurrence of a definition.
//
// Footprint (W, H) is derived from Size at creation but stored explicitly so
// an instance can be resized independently of its category later.
type WidgetInstance struct {
	ID       string       `json:"id"`
	WidgetID string       `json:"widgetId"`
	Title    string       `json:"title"`
	Size     SizeCategory `json:"size"`

	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`

	Config map[string]any `json:"config,omitempty"`
}

// Overlaps reports whether two instance rectangles intersect.
func (wi WidgetInstance) Overlaps(other WidgetInstance) bool {
	return wi.X < other.X+other.W && other.X < wi.X+wi.W &&
		wi.Y < other.Y+other.H && other.Y < wi.Y+wi.H
}

// DashboardLayout is a named collection of widget instances.
// Membership matters; list order carries no meaning.
type DashboardLayout struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Widgets   []WidgetInstance `json:"widgets"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (l *DashboardLayout) FindWidget(instanceID string) (*WidgetInstance, bool) {
	for i := range l.Widgets {
		if l.Widgets[i].ID == instanceID {
			return &l.Widgets[i], true
		}
	}
	return nil, false
}

// Event is one entry in the append-only mutation log.
type Event struct {
	ID       string          `json:"id"`
	TS       time.Time       `json:"ts"`
	Type     string          `json:"type"`
	EntityID string          `json:"entityId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
