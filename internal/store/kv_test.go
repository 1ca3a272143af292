package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestKVSetGetRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	in := map[string]any{"name": "Main", "count": float64(3)}
	if err := s.Set("dashboard-layouts", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out map[string]any
	if !s.Get("dashboard-layouts", &out) {
		t.Fatalf("Get returned false for a key that was just set")
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("roundtrip mismatch: set %#v, got %#v", in, out)
	}
}

func TestKVGetMissingReturnsFalse(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	var out string
	if s.Get("never-set", &out) {
		t.Fatalf("Get returned true for a missing key")
	}
	if out != "" {
		t.Fatalf("expected out untouched, got %q", out)
	}
}

func TestKVGetCorruptReturnsFalse(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.kvDir(), "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt value: %v", err)
	}

	var out map[string]any
	if s.Get("broken", &out) {
		t.Fatalf("Get returned true for a corrupt value")
	}

	// Devtools must still see the raw bytes.
	raw, ok := s.GetRaw("broken")
	if !ok || string(raw) != "{not json" {
		t.Fatalf("GetRaw = %q, %v; want raw corrupt bytes", raw, ok)
	}
}

func TestKVRemoveIsIdempotent(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if err := s.Set("dark-mode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Remove("dark-mode"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("dark-mode"); err != nil {
		t.Fatalf("Remove (absent): %v", err)
	}
	var out string
	if s.Get("dark-mode", &out) {
		t.Fatalf("Get returned true after Remove")
	}
}

func TestKVKeysSorted(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	for _, k := range []string{"zeta", "alpha", "midway"} {
		if err := s.Set(k, k); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"alpha", "midway", "zeta"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
}

func TestKVKeysEmptyStore(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestKeyFileNameSanitizes(t *testing.T) {
	cases := map[string]string{
		"dashboard-layouts":      "dashboard-layouts",
		"widget-config-a-wi-b":   "widget-config-a-wi-b",
		"weird/../../etc/passwd": "weird_.._.._etc_passwd",
		"spaces and:colons":      "spaces_and_colons",
		"..":                     "_",
		"":                       "_",
	}
	for in, want := range cases {
		if got := keyFileName(in); got != want {
			t.Fatalf("keyFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
