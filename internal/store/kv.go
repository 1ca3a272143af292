package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Well-known keys. These shapes are the persisted state surface other
// tooling may read directly; see the key helpers below for the scoped
// widget-config/state/storage families.
const (
	KeyLayouts      = "dashboard-layouts"
	KeyActiveLayout = "current-dashboard-layout"
)

// Get reads key into out and reports whether a usable value was found.
// Missing keys and corrupted values both return false so the caller's
// default stays in effect; corruption is logged, never fatal.
func (s Store) Get(key string, out any) bool {
	switch s.backend() {
	case BackendSQLite:
		return s.getSQLite(key, out)
	default:
		return s.getJSON(key, out)
	}
}

// Set serializes v and writes it under key. Persistence is best-effort:
// callers that can proceed on an in-memory copy may discard the error.
func (s Store) Set(key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		debugf("set %s: marshal: %v", key, err)
		return err
	}
	switch s.backend() {
	case BackendSQLite:
		err = s.setSQLite(key, b)
	default:
		err = s.setJSON(key, b)
	}
	if err != nil {
		debugf("set %s: %v", key, err)
	}
	return err
}

// Remove deletes key. Removing an absent key is a no-op.
func (s Store) Remove(key string) error {
	switch s.backend() {
	case BackendSQLite:
		return s.removeSQLite(key)
	default:
		return s.removeJSON(key)
	}
}

// Keys lists all stored keys in sorted order.
func (s Store) Keys() ([]string, error) {
	switch s.backend() {
	case BackendSQLite:
		return s.keysSQLite()
	default:
		return s.keysJSON()
	}
}

// GetRaw returns the stored bytes for key without interpreting them.
// Used by the devtools surface, which must show corrupt values too.
func (s Store) GetRaw(key string) ([]byte, bool) {
	switch s.backend() {
	case BackendSQLite:
		return s.getRawSQLite(key)
	default:
		b, err := os.ReadFile(s.keyPath(key))
		if err != nil {
			return nil, false
		}
		return b, true
	}
}

func (s Store) getJSON(key string, out any) bool {
	b, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debugf("get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		debugf("get %s: corrupt value: %v", key, err)
		return false
	}
	return true
}

func (s Store) setJSON(key string, b []byte) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	path := s.keyPath(key)
	// Unique temp name + rename keeps concurrent writers from corrupting
	// each other; last rename wins, which is the documented resolution.
	f, err := os.CreateTemp(s.kvDir(), keyFileName(key)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, 0o644)
	return os.Rename(tmp, path)
}

func (s Store) removeJSON(key string) error {
	err := os.Remove(s.keyPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s Store) keysJSON() ([]string, error) {
	ents, err := os.ReadDir(s.kvDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	out := []string{}
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

func (s Store) keyPath(key string) string {
	return filepath.Join(s.kvDir(), keyFileName(key)+".json")
}

// keyFileName maps a store key to a safe file name. Keys are already
// constrained to the documented dashed families, so this only guards
// against separators and relative-path tricks in free-form suffixes.
func keyFileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || strings.Trim(name, ".") == "" {
		name = "_"
	}
	return name
}
