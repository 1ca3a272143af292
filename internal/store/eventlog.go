package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"time"

	"gridboard-cli/internal/model"
)

// AppendEvent records a layout mutation in the append-only events log.
// Best-effort: callers discard the error in normal operation, so a full
// disk never blocks an in-memory mutation.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := newUUIDv4()
	if err != nil {
		return err
	}
	ev := model.Event{
		ID:       id,
		TS:       time.Now().UTC(),
		Type:     typ,
		EntityID: entityID,
		Payload:  json.RawMessage(pb),
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// ReadEventsTail reads the last N events from the events log.
//
// The returned slice is in chronological order (oldest-first within the
// returned window). If limit <= 0, all events are returned.
func (s Store) ReadEventsTail(limit int) ([]model.Event, error) {
	f, err := os.Open(s.eventsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Event{}, nil
		}
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		var out []model.Event
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var ev model.Event
			if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		if out == nil {
			out = []model.Event{}
		}
		return out, nil
	}

	// Ring buffer for the last `limit` events.
	ring := make([]model.Event, limit)
	start := 0
	size := 0

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev model.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, err
		}
		if size < limit {
			ring[size] = ev
			size++
		} else {
			ring[start] = ev
			start = (start + 1) % limit
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if size == 0 {
		return []model.Event{}, nil
	}
	if size < limit {
		return ring[:size], nil
	}

	out := make([]model.Event, 0, limit)
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)
	return out, nil
}
