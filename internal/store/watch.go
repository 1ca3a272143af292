package store

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatchUnsupported is returned when the store backend cannot deliver
// change notifications (sqlite keeps all keys in one file, so per-key
// events are not available).
var ErrWatchUnsupported = errors.New("store backend does not support watching")

// ChangeKind describes the type of key change detected.
type ChangeKind int

const (
	ChangeSet     ChangeKind = iota // key written (created or updated)
	ChangeRemoved                   // key deleted
)

// Change is one observed mutation of a watched key.
type Change struct {
	Kind ChangeKind
	Key  string
}

// Watcher delivers best-effort change notifications for store keys,
// the cross-process analog of a storage-change event: another process
// writing the same store dir is observed here. Advisory and eventual;
// concurrent writers still resolve last-write-wins with no merge.
type Watcher struct {
	Changes <-chan Change // Read-only external channel

	keys    map[string]bool // nil => all keys
	changes chan Change     // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// Watch starts watching the given keys (all keys when none are given).
// The caller must Stop the returned watcher.
func (s Store) Watch(keys ...string) (*Watcher, error) {
	if s.backend() != BackendJSON {
		return nil, ErrWatchUnsupported
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.kvDir()); err != nil {
		_ = fw.Close()
		return nil, err
	}

	var keySet map[string]bool
	if len(keys) > 0 {
		keySet = make(map[string]bool, len(keys))
		for _, k := range keys {
			keySet[keyFileName(k)] = true
		}
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		Changes: ch,
		keys:    keySet,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	go w.loop()
	return w, nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	_ = w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: atomic writes produce create+rename bursts per key.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]ChangeKind)
	last := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for key, kind := range pending {
					w.emit(key, kind)
				}
				return
			}
			key, ok := w.keyFor(event.Name)
			if !ok {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove):
				pending[key] = ChangeRemoved
				last[key] = time.Now()
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				pending[key] = ChangeSet
				last[key] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for key, t := range last {
				if now.Sub(t) >= debounce {
					w.emit(key, pending[key])
					delete(pending, key)
					delete(last, key)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; notification is best-effort.
		}
	}
}

// keyFor maps an fsnotify path to a watched key file name, skipping
// temp files from in-flight atomic writes.
func (w *Watcher) keyFor(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".tmp") {
		return "", false
	}
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	name := strings.TrimSuffix(base, ".json")
	if w.keys != nil && !w.keys[name] {
		return "", false
	}
	return name, true
}

func (w *Watcher) emit(key string, kind ChangeKind) {
	select {
	case w.changes <- Change{Kind: kind, Key: key}:
	default:
		// Drop rather than block; a slow consumer can re-read the store.
	}
}
