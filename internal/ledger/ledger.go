// Package ledger owns the demo user's point balance and view history.
//
// The history is append-only and the balance is kept equal to the sum of
// history rewards; only Reset breaks that equation, and it clears both sides
// in one write. Credit carries no idempotence guard: exactly-once crediting
// per playback session is the playback package's job, and calling Credit
// directly twice with the same snapshot will double-credit.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ypk/pubflix/internal/model"
	"github.com/ypk/pubflix/internal/storage"
)

// Ledger is the single-user account store. Safe for concurrent use.
type Ledger struct {
	mu   sync.Mutex
	kv   storage.KV
	user model.UserLedger
	now  func() time.Time
}

// New loads the ledger from kv. Absent or corrupt data yields a fresh
// guest account.
func New(kv storage.KV) *Ledger {
	l := &Ledger{kv: kv, now: time.Now}

	if raw, ok := kv.Load(storage.KeyLedger); ok {
		var u model.UserLedger
		if err := json.Unmarshal(raw, &u); err != nil {
			slog.Warn("ledger document corrupt, starting fresh", "error", err)
		} else {
			l.user = u
		}
	}
	if l.user.DisplayName == "" {
		l.user.DisplayName = guestLabel()
	}
	return l
}

// SetNow overrides the clock, for tests.
func (l *Ledger) SetNow(now func() time.Time) { l.now = now }

// Credit adds the snapshot's reward to the balance and appends a view
// record stamped with the current time. Returns the updated ledger.
func (l *Ledger) Credit(snap model.AdSnapshot) (model.UserLedger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := model.ViewRecord{
		AdID:            snap.AdID,
		Title:           snap.Title,
		RewardPoints:    snap.RewardPoints,
		DurationSeconds: snap.DurationSeconds,
		CompletedAt:     l.now().UTC(),
	}
	l.user.Points += snap.RewardPoints
	l.user.History = append(l.user.History, rec)

	if err := l.persist(); err != nil {
		l.user.Points -= snap.RewardPoints
		l.user.History = l.user.History[:len(l.user.History)-1]
		return model.UserLedger{}, err
	}
	return l.copyUser(), nil
}

// SetDisplayName trims and stores the name; a blank name gets a generated
// guest label instead.
func (l *Ledger) SetDisplayName(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = guestLabel()
	}
	prev := l.user.DisplayName
	l.user.DisplayName = name
	if err := l.persist(); err != nil {
		l.user.DisplayName = prev
		return err
	}
	return nil
}

// Reset clears points and history together. The display name survives.
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.user
	l.user.Points = 0
	l.user.History = nil
	if err := l.persist(); err != nil {
		l.user = prev
		return err
	}
	return nil
}

// Snapshot returns a read-only copy for display layers.
func (l *Ledger) Snapshot() model.UserLedger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyUser()
}

func (l *Ledger) copyUser() model.UserLedger {
	u := l.user
	u.History = append([]model.ViewRecord(nil), l.user.History...)
	return u
}

func (l *Ledger) persist() error {
	raw, err := json.Marshal(l.user)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	return l.kv.Save(storage.KeyLedger, raw)
}

func guestLabel() string {
	return "Guest-" + uuid.New().String()[:8]
}
