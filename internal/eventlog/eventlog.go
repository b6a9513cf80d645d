// Package eventlog is the append-only audit trail of lifecycle and admin
// actions. It is independent of the ledger: entries are diagnostics, not
// accounting.
package eventlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ypk/pubflix/internal/storage"
)

// Kind classifies an audit entry.
type Kind string

const (
	ViewStarted   Kind = "view_started"
	ViewCompleted Kind = "view_completed"
	AdminAdded    Kind = "admin_added"
	AdminEdited   Kind = "admin_edited"
	AdminRemoved  Kind = "admin_removed"
)

// Entry is one audit record.
type Entry struct {
	ID      string            `json:"id"`
	Kind    Kind              `json:"kind"`
	At      time.Time         `json:"at"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Log is the event log store. Safe for concurrent use. Retention is
// unbounded; pruning is an external concern.
type Log struct {
	mu      sync.Mutex
	kv      storage.KV
	entries []Entry
	now     func() time.Time
}

// New loads the log from kv. Absent or corrupt data yields an empty log.
func New(kv storage.KV) *Log {
	l := &Log{kv: kv, now: time.Now}

	if raw, ok := kv.Load(storage.KeyEvents); ok {
		var entries []Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			slog.Warn("event log document corrupt, starting empty", "error", err)
		} else {
			l.entries = entries
		}
	}
	return l
}

// SetNow overrides the clock, for tests.
func (l *Log) SetNow(now func() time.Time) { l.now = now }

// Append records an entry. Persistence failures are logged and swallowed:
// the audit trail must never break the operation it describes.
func (l *Log) Append(kind Kind, payload map[string]string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		ID:      uuid.New().String(),
		Kind:    kind,
		At:      l.now().UTC(),
		Payload: payload,
	}
	l.entries = append(l.entries, e)

	if err := l.persist(); err != nil {
		slog.Error("persist event log", "kind", kind, "error", err)
	}
	return e
}

// List returns up to limit entries, newest first, skipping offset, narrowed
// to kind when non-empty.
func (l *Log) List(limit, offset int, kind Kind) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	skipped := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if kind != "" && e.Kind != kind {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Count reports how many entries match kind ("" counts everything).
func (l *Log) Count(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if kind == "" {
		return len(l.entries)
	}
	n := 0
	for _, e := range l.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Clear drops every entry. Used by the demo reset.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.entries
	l.entries = nil
	if err := l.persist(); err != nil {
		l.entries = prev
		return err
	}
	return nil
}

func (l *Log) persist() error {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		return fmt.Errorf("marshal event log: %w", err)
	}
	return l.kv.Save(storage.KeyEvents, raw)
}
