package ledger_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ypk/pubflix/internal/ledger"
	"github.com/ypk/pubflix/internal/model"
	"github.com/ypk/pubflix/internal/storage"
)

func snap(id int64, title string, dur, reward int) model.AdSnapshot {
	return model.AdSnapshot{AdID: id, Title: title, DurationSeconds: dur, RewardPoints: reward}
}

func TestCreditSumInvariant(t *testing.T) {
	l := ledger.New(storage.NewMemory())

	rewards := []int{6, 9, 0, 4}
	for i, r := range rewards {
		if _, err := l.Credit(snap(int64(i+1), "ad", 20, r)); err != nil {
			t.Fatalf("credit %d: %v", i, err)
		}
	}

	u := l.Snapshot()
	sum := 0
	for _, v := range u.History {
		sum += v.RewardPoints
	}
	if u.Points != sum {
		t.Errorf("points = %d, history sum = %d", u.Points, sum)
	}
	if u.Points != 19 {
		t.Errorf("points = %d, want 19", u.Points)
	}
	if len(u.History) != len(rewards) {
		t.Errorf("history len = %d, want %d", len(u.History), len(rewards))
	}
}

func TestCreditAppendsChronologically(t *testing.T) {
	l := ledger.New(storage.NewMemory())
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	l.SetNow(func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	})

	l.Credit(snap(1, "first", 10, 1))
	l.Credit(snap(2, "second", 10, 2))

	u := l.Snapshot()
	if u.History[0].Title != "first" || u.History[1].Title != "second" {
		t.Errorf("history order wrong: %+v", u.History)
	}
	if !u.History[1].CompletedAt.After(u.History[0].CompletedAt) {
		t.Error("history timestamps not increasing")
	}
}

func TestSetDisplayName(t *testing.T) {
	l := ledger.New(storage.NewMemory())

	if err := l.SetDisplayName("  Alice  "); err != nil {
		t.Fatal(err)
	}
	if got := l.Snapshot().DisplayName; got != "Alice" {
		t.Errorf("display name = %q, want %q", got, "Alice")
	}

	if err := l.SetDisplayName("   "); err != nil {
		t.Fatal(err)
	}
	if got := l.Snapshot().DisplayName; !strings.HasPrefix(got, "Guest-") {
		t.Errorf("blank name produced %q, want generated guest label", got)
	}
}

func TestNewAssignsGuestLabel(t *testing.T) {
	l := ledger.New(storage.NewMemory())
	if got := l.Snapshot().DisplayName; !strings.HasPrefix(got, "Guest-") {
		t.Errorf("fresh ledger display name = %q", got)
	}
}

func TestReset(t *testing.T) {
	l := ledger.New(storage.NewMemory())
	l.SetDisplayName("Alice")
	l.Credit(snap(1, "ad", 20, 6))

	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	u := l.Snapshot()
	if u.Points != 0 || len(u.History) != 0 {
		t.Errorf("after reset: points = %d, history len = %d", u.Points, len(u.History))
	}
	if u.DisplayName != "Alice" {
		t.Errorf("reset dropped display name: %q", u.DisplayName)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := ledger.New(storage.NewMemory())
	l.Credit(snap(1, "ad", 20, 6))

	u := l.Snapshot()
	u.History[0].RewardPoints = 999
	u.Points = 0

	if got := l.Snapshot(); got.Points != 6 || got.History[0].RewardPoints != 6 {
		t.Error("mutating a snapshot leaked into the ledger")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemory()

	l := ledger.New(kv)
	l.SetDisplayName("Alice")
	l.Credit(snap(1, "ad", 20, 6))

	reloaded := ledger.New(kv)
	u := reloaded.Snapshot()
	if u.DisplayName != "Alice" || u.Points != 6 || len(u.History) != 1 {
		t.Errorf("reloaded ledger = %+v", u)
	}
}

func TestCorruptDocumentStartsFresh(t *testing.T) {
	kv := storage.NewMemory()
	kv.Save(storage.KeyLedger, []byte("]["))

	l := ledger.New(kv)
	u := l.Snapshot()
	if u.Points != 0 || len(u.History) != 0 {
		t.Errorf("corrupt doc produced %+v", u)
	}
}
