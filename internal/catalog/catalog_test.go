package catalog_test

import (
	"errors"
	"testing"

	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/storage"
)

func newStore(t *testing.T) *catalog.Store {
	t.Helper()
	return catalog.New(storage.NewMemory())
}

func mustAdd(t *testing.T, s *catalog.Store, d catalog.Draft) int64 {
	t.Helper()
	ad, err := s.Add(d)
	if err != nil {
		t.Fatalf("Add(%+v): %v", d, err)
	}
	return ad.ID
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s := newStore(t)

	id1 := mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "https://example.com/a"})
	id2 := mustAdd(t, s, catalog.Draft{Title: "B", MediaRef: "https://example.com/b"})
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", id1, id2)
	}

	// Removing the highest id must not let its id be reissued.
	if err := s.Remove(id2); err != nil {
		t.Fatalf("Remove(%d): %v", id2, err)
	}
	id3 := mustAdd(t, s, catalog.Draft{Title: "C", MediaRef: "https://example.com/c"})
	if id3 != 3 {
		t.Errorf("id after remove = %d, want 3", id3)
	}
}

func TestAddValidation(t *testing.T) {
	s := newStore(t)

	cases := []catalog.Draft{
		{Title: "", MediaRef: "https://example.com/a"},
		{Title: "   ", MediaRef: "https://example.com/a"},
		{Title: "A", MediaRef: ""},
		{Title: "A", MediaRef: "  "},
	}
	for _, d := range cases {
		if _, err := s.Add(d); !errors.Is(err, catalog.ErrValidation) {
			t.Errorf("Add(%+v) err = %v, want ErrValidation", d, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("catalog len = %d after failed adds, want 0", s.Len())
	}
}

func TestAddDefaults(t *testing.T) {
	s := newStore(t)

	ad, err := s.Add(catalog.Draft{Title: "A", MediaRef: "https://example.com/a", RewardPoints: -1})
	if err != nil {
		t.Fatal(err)
	}
	if ad.DurationSeconds != catalog.DefaultDurationSeconds {
		t.Errorf("duration = %d, want default %d", ad.DurationSeconds, catalog.DefaultDurationSeconds)
	}
	if ad.RewardPoints != catalog.DefaultRewardPoints {
		t.Errorf("reward = %d, want default %d", ad.RewardPoints, catalog.DefaultRewardPoints)
	}
	if ad.ThumbnailRef != catalog.DefaultThumbnailRef {
		t.Errorf("thumbnail = %q, want default", ad.ThumbnailRef)
	}
	if !ad.Active {
		t.Error("new ad should be active")
	}

	// An explicit zero reward is preserved, not defaulted.
	ad, err = s.Add(catalog.Draft{Title: "B", MediaRef: "https://example.com/b", DurationSeconds: 10})
	if err != nil {
		t.Fatal(err)
	}
	if ad.RewardPoints != 0 {
		t.Errorf("explicit zero reward became %d", ad.RewardPoints)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	s := newStore(t)
	mustAdd(t, s, catalog.Draft{Title: "Adidas Run", MediaRef: "m", DurationSeconds: 22, RewardPoints: 6})
	mustAdd(t, s, catalog.Draft{Title: "Tesla Demo", MediaRef: "m", DurationSeconds: 60, RewardPoints: 9})
	mustAdd(t, s, catalog.Draft{Title: "Eco Drink", MediaRef: "m", DurationSeconds: 18, RewardPoints: 4})

	if got := s.List(catalog.Query{Text: "TESLA"}); len(got) != 1 || got[0].Title != "Tesla Demo" {
		t.Errorf("case-insensitive text filter got %+v", got)
	}

	short := s.List(catalog.Query{MaxDurationSeconds: 30})
	if len(short) != 2 {
		t.Errorf("short filter returned %d ads, want 2", len(short))
	}

	popular := s.List(catalog.Query{SortByReward: true})
	if len(popular) != 3 || popular[0].RewardPoints != 9 || popular[2].RewardPoints != 4 {
		t.Errorf("popular sort order wrong: %+v", popular)
	}

	// Default order is insertion order.
	all := s.List(catalog.Query{})
	if all[0].Title != "Adidas Run" || all[2].Title != "Eco Drink" {
		t.Errorf("insertion order not preserved: %+v", all)
	}
}

func TestListExcludesInactive(t *testing.T) {
	s := newStore(t)
	id := mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "m"})
	mustAdd(t, s, catalog.Draft{Title: "B", MediaRef: "m"})

	active := false
	if _, err := s.Edit(id, catalog.Patch{Active: &active}); err != nil {
		t.Fatal(err)
	}

	for _, ad := range s.List(catalog.Query{}) {
		if !ad.Active {
			t.Fatalf("List returned inactive ad %d", ad.ID)
		}
	}
	if got := len(s.List(catalog.Query{})); got != 1 {
		t.Errorf("List len = %d, want 1", got)
	}
	if got := len(s.All()); got != 2 {
		t.Errorf("All len = %d, want 2 (inactive kept)", got)
	}
}

func TestEdit(t *testing.T) {
	s := newStore(t)
	id := mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "m", DurationSeconds: 10, RewardPoints: 3})

	title := "A2"
	ad, err := s.Edit(id, catalog.Patch{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if ad.Title != "A2" || ad.DurationSeconds != 10 || ad.RewardPoints != 3 {
		t.Errorf("patch touched unrelated fields: %+v", ad)
	}

	blank := "  "
	if _, err := s.Edit(id, catalog.Patch{Title: &blank}); !errors.Is(err, catalog.ErrValidation) {
		t.Errorf("blank title patch err = %v, want ErrValidation", err)
	}

	if _, err := s.Edit(999, catalog.Patch{Title: &title}); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("edit missing id err = %v, want ErrNotFound", err)
	}
}

func TestRemoveNotIdempotent(t *testing.T) {
	s := newStore(t)
	id := mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "m"})

	if err := s.Remove(id); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := s.Remove(id); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
	if err := s.Remove(42); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("remove unknown err = %v, want ErrNotFound", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	s := newStore(t)
	mustAdd(t, s, catalog.Draft{Title: "Old", MediaRef: "m"})

	seeded := s.LoadDefaults()
	if len(seeded) != 3 {
		t.Fatalf("seed set has %d ads, want 3", len(seeded))
	}
	for _, ad := range seeded {
		if !ad.Active || ad.DurationSeconds <= 0 || ad.RewardPoints < 0 {
			t.Errorf("bad seed ad: %+v", ad)
		}
	}
	if got := len(s.List(catalog.Query{Text: "Old"})); got != 0 {
		t.Error("LoadDefaults did not replace the catalog")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemory()

	s := catalog.New(kv)
	mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "m", DurationSeconds: 15, RewardPoints: 2})

	reloaded := catalog.New(kv)
	got := reloaded.List(catalog.Query{})
	if len(got) != 1 || got[0].Title != "A" || got[0].DurationSeconds != 15 {
		t.Errorf("reloaded catalog = %+v", got)
	}

	// New ids continue above the persisted maximum.
	id := mustAdd(t, reloaded, catalog.Draft{Title: "B", MediaRef: "m"})
	if id != 2 {
		t.Errorf("id after reload = %d, want 2", id)
	}
}

func TestCorruptDocumentTreatedAsAbsent(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Save(storage.KeyAds, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	s := catalog.New(kv)
	if s.Len() != 0 {
		t.Errorf("corrupt doc produced %d ads, want empty catalog", s.Len())
	}
	// And the store still works afterwards.
	mustAdd(t, s, catalog.Draft{Title: "A", MediaRef: "m"})
}
