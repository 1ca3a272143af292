package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	kvDirName      = "kv"
	sqliteFileName = "kv.sqlite"
	eventsFileName = "events.jsonl"

	envDir     = "GRIDBOARD_DIR"
	envBackend = "GRIDBOARD_STORE"
	envDebug   = "GRIDBOARD_DEBUG"
)

// Store is a handle to one board store directory. The zero value is not
// usable; Dir must be set.
type Store struct {
	Dir string
}

// Backend selects how key-value pairs are persisted.
//
// Default: one JSON file per key under kv/ (best for inspection and for
// change notification via the file watcher).
// Opt-in: set GRIDBOARD_STORE=sqlite to use a single SQLite database.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

func (s Store) backend() Backend {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(envBackend)))
	switch v {
	case string(BackendJSON):
		return BackendJSON
	case string(BackendSQLite):
		return BackendSQLite
	default:
		// Auto-detect: an existing kv.sqlite means this store was created
		// with the sqlite backend; keep using it.
		if _, err := os.Stat(s.sqlitePath()); err == nil {
			return BackendSQLite
		}
		return BackendJSON
	}
}

// DiscoverDir walks upward from start looking for a .gridboard directory,
// so a board checked into a project root is found from any subdirectory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".gridboard")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the store directory:
// GRIDBOARD_DIR env, then upward .gridboard discovery, then
// ~/.gridboard/default.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envDir)); v != "" {
		return v, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gridboard", "default"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(filepath.Join(s.Dir, kvDirName), 0o755)
}

func (s Store) kvDir() string {
	return filepath.Join(s.Dir, kvDirName)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) eventsPath() string {
	return filepath.Join(s.Dir, eventsFileName)
}

// debugf prints swallowed-error diagnostics when GRIDBOARD_DEBUG is set.
// Store reads and writes are best-effort by contract; this is the only
// place those failures surface.
func debugf(format string, args ...any) {
	if strings.TrimSpace(os.Getenv(envDebug)) == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "gridboard: "+format+"\n", args...)
}
