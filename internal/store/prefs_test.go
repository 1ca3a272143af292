package store

import "testing"

func TestPrefsDefaultWhenUnset(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if got := s.GetPref(PrefDarkMode, false); got {
		t.Fatalf("GetPref(dark-mode, false) = true on empty store")
	}
	if got := s.GetPref(PrefSidebarCollapsed, true); !got {
		t.Fatalf("GetPref(sidebar-collapsed, true) = false on empty store")
	}
}

func TestPrefsSetGet(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if err := s.SetPref(PrefDarkMode, true); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	if !s.GetPref(PrefDarkMode, false) {
		t.Fatalf("GetPref after SetPref(true) = false")
	}
	if err := s.SetPref(PrefDarkMode, false); err != nil {
		t.Fatalf("SetPref: %v", err)
	}
	if s.GetPref(PrefDarkMode, true) {
		t.Fatalf("GetPref after SetPref(false) = true")
	}

	// Stored as the string "true"/"false", matching the documented shape.
	var raw string
	if !s.Get(PrefDarkMode, &raw) || raw != "false" {
		t.Fatalf("stored pref value = %q, want \"false\"", raw)
	}
}

func TestPrefsRejectUnknownKey(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if err := s.SetPref("not-a-pref", true); err == nil {
		t.Fatalf("SetPref accepted an unknown key")
	}
}

func TestPrefsCorruptValueFallsBack(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	// A stray non-boolean value must not break callers.
	if err := s.Set(PrefDevtoolsVisible, "maybe"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.GetPref(PrefDevtoolsVisible, true); !got {
		t.Fatalf("GetPref on unparseable value ignored the default")
	}
}
