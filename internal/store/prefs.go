package store

import "fmt"

// Preference flags persisted as boolean-as-string, matching the
// documented key surface.
const (
	PrefDarkMode         = "dark-mode"
	PrefSidebarCollapsed = "sidebar-collapsed"
	PrefDevtoolsVisible  = "devtools-visible"
	PrefDashboardMode    = "dashboard-mode"
)

func PrefKeys() []string {
	return []string{PrefDarkMode, PrefSidebarCollapsed, PrefDevtoolsVisible, PrefDashboardMode}
}

func IsPrefKey(key string) bool {
	for _, k := range PrefKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// GetPref returns the stored flag, or def when unset/corrupt.
func (s Store) GetPref(key string, def bool) bool {
	var v string
	if !s.Get(key, &v) {
		return def
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	default:
		debugf("pref %s: unexpected value %q", key, v)
		return def
	}
}

func (s Store) SetPref(key string, v bool) error {
	if !IsPrefKey(key) {
		return fmt.Errorf("unknown preference key: %q", key)
	}
	return s.Set(key, fmt.Sprintf("%t", v))
}
