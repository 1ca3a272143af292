package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Widget-scoped stores. These families are independent of the layout's
// embedded instance config: widgets own them, the layout manager never
// interprets them, and the two may drift.

func WidgetConfigKey(widgetID, instanceID string) string {
	return fmt.Sprintf("widget-config-%s-%s", widgetID, instanceID)
}

func WidgetStateKey(widgetID, instanceID string) string {
	return fmt.Sprintf("widget-state-%s-%s", widgetID, instanceID)
}

func WidgetStorageKey(widgetID, instanceID, name string) string {
	return fmt.Sprintf("widget-storage-%s-%s-%s", widgetID, instanceID, name)
}

// WidgetConfig is the persisted per-instance configuration envelope.
type WidgetConfig struct {
	WidgetID   string         `json:"widgetId"`
	InstanceID string         `json:"instanceId"`
	Settings   map[string]any `json:"settings"`
	Version    int            `json:"version"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// LoadWidgetConfig returns the stored config for an instance, or an
// empty envelope when missing/corrupt. Best effort by contract.
func (s Store) LoadWidgetConfig(widgetID, instanceID string) *WidgetConfig {
	cfg := &WidgetConfig{
		WidgetID:   widgetID,
		InstanceID: instanceID,
		Settings:   map[string]any{},
		Version:    1,
	}
	var stored WidgetConfig
	if s.Get(WidgetConfigKey(widgetID, instanceID), &stored) {
		if stored.Settings == nil {
			stored.Settings = map[string]any{}
		}
		if stored.Version == 0 {
			stored.Version = 1
		}
		stored.WidgetID = widgetID
		stored.InstanceID = instanceID
		return &stored
	}
	return cfg
}

func (s Store) SaveWidgetConfig(cfg *WidgetConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cfg.UpdatedAt = time.Now().UTC()
	return s.Set(WidgetConfigKey(cfg.WidgetID, cfg.InstanceID), cfg)
}

// MergeWidgetSettings applies a partial update: given keys overwrite,
// unrelated keys are preserved.
func (s Store) MergeWidgetSettings(widgetID, instanceID string, patch map[string]any) error {
	cfg := s.LoadWidgetConfig(widgetID, instanceID)
	for k, v := range patch {
		cfg.Settings[k] = v
	}
	return s.SaveWidgetConfig(cfg)
}

// WidgetState is small transient UI state, best-effort like the rest of
// the widget-scoped families.
type WidgetState struct {
	Active    bool           `json:"active,omitempty"`
	Expanded  bool           `json:"expanded,omitempty"`
	Collapsed bool           `json:"collapsed,omitempty"`
	Selected  bool           `json:"selected,omitempty"`
	Custom    map[string]any `json:"custom,omitempty"`
}

func (s Store) LoadWidgetState(widgetID, instanceID string) *WidgetState {
	var st WidgetState
	if s.Get(WidgetStateKey(widgetID, instanceID), &st) {
		return &st
	}
	return &WidgetState{}
}

func (s Store) SaveWidgetState(widgetID, instanceID string, st *WidgetState) error {
	if st == nil {
		return nil
	}
	return s.Set(WidgetStateKey(widgetID, instanceID), st)
}

// StorageMetadata describes a named widget storage blob.
type StorageMetadata struct {
	WidgetID   string    `json:"widgetId"`
	InstanceID string    `json:"instanceId"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Schema     int       `json:"schema"`
}

type storageEnvelope struct {
	Data     json.RawMessage `json:"data"`
	Metadata StorageMetadata `json:"metadata"`
}

// MigrateFunc upgrades stored data from an older schema. It returns the
// value to use (which is re-persisted under the current schema).
type MigrateFunc func(old json.RawMessage, fromSchema int) (any, error)

// LoadWidgetStorage reads the named storage blob into out. When the
// stored schema differs from schema and migrate is non-nil, the migrated
// value is written back and decoded into out. Returns false when the
// blob is missing, corrupt, or migration fails.
func (s Store) LoadWidgetStorage(widgetID, instanceID, name string, schema int, out any, migrate MigrateFunc) bool {
	key := WidgetStorageKey(widgetID, instanceID, name)
	var env storageEnvelope
	if !s.Get(key, &env) {
		return false
	}
	if env.Metadata.Schema != schema && migrate != nil {
		migrated, err := migrate(env.Data, env.Metadata.Schema)
		if err != nil {
			debugf("widget storage %s: migrate from schema %d: %v", key, env.Metadata.Schema, err)
			return false
		}
		if err := s.SaveWidgetStorage(widgetID, instanceID, name, schema, migrated); err != nil {
			return false
		}
		b, err := json.Marshal(migrated)
		if err != nil {
			return false
		}
		env.Data = b
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		debugf("widget storage %s: corrupt data: %v", key, err)
		return false
	}
	return true
}

func (s Store) SaveWidgetStorage(widgetID, instanceID, name string, schema int, data any) error {
	key := WidgetStorageKey(widgetID, instanceID, name)
	b, err := json.Marshal(data)
	if err != nil {
		debugf("widget storage %s: marshal: %v", key, err)
		return err
	}
	now := time.Now().UTC()
	var existing storageEnvelope
	created := now
	version := 1
	if s.Get(key, &existing) {
		if !existing.Metadata.CreatedAt.IsZero() {
			created = existing.Metadata.CreatedAt
		}
		version = existing.Metadata.Version + 1
	}
	return s.Set(key, storageEnvelope{
		Data: b,
		Metadata: StorageMetadata{
			WidgetID:   widgetID,
			InstanceID: instanceID,
			Version:    version,
			CreatedAt:  created,
			UpdatedAt:  now,
			Schema:     schema,
		},
	})
}

// RemoveWidgetScoped deletes every widget-config/state/storage key for
// the given instance. Used when an instance is removed from a layout.
func (s Store) RemoveWidgetScoped(widgetID, instanceID string) {
	keys, err := s.Keys()
	if err != nil {
		debugf("remove widget-scoped %s/%s: %v", widgetID, instanceID, err)
		return
	}
	prefixes := []string{
		WidgetConfigKey(widgetID, instanceID),
		WidgetStateKey(widgetID, instanceID),
		WidgetStorageKey(widgetID, instanceID, ""),
	}
	for _, k := range keys {
		for _, p := range prefixes {
			if k == p || strings.HasPrefix(k, p) {
				_ = s.Remove(k)
				break
			}
		}
	}
}
