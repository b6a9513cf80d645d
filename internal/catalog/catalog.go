// Package catalog owns the ad catalog: listing with filters, admin CRUD,
// and the demo seed set. All mutations persist through the injected
// storage.KV collaborator.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ypk/pubflix/internal/model"
	"github.com/ypk/pubflix/internal/storage"
)

var (
	// ErrNotFound is returned for operations referencing an unknown ad id.
	ErrNotFound = errors.New("ad not found")

	// ErrValidation is returned for ad drafts or patches with bad fields.
	ErrValidation = errors.New("invalid ad")
)

// Fallback values applied when a draft omits numeric fields or a thumbnail.
const (
	DefaultDurationSeconds = 30
	DefaultRewardPoints    = 5
	DefaultThumbnailRef    = "https://i.imgur.com/3ZQ3Z1R.jpg"
)

// Draft is the input to Add. Zero DurationSeconds and negative RewardPoints
// take the documented defaults.
type Draft struct {
	Title           string `json:"title"`
	ThumbnailRef    string `json:"thumbnail_ref"`
	MediaRef        string `json:"media_ref"`
	DurationSeconds int    `json:"duration_seconds"`
	RewardPoints    int    `json:"reward_points"`
}

// Patch carries the fields to change in Edit; nil pointers are left alone.
type Patch struct {
	Title           *string `json:"title"`
	ThumbnailRef    *string `json:"thumbnail_ref"`
	MediaRef        *string `json:"media_ref"`
	DurationSeconds *int    `json:"duration_seconds"`
	RewardPoints    *int    `json:"reward_points"`
	Active          *bool   `json:"active"`
}

// Query narrows List. Zero value lists all active ads in insertion order.
type Query struct {
	// Text is a case-insensitive title substring filter.
	Text string
	// MaxDurationSeconds, when > 0, keeps only ads at or under the limit.
	MaxDurationSeconds int
	// SortByReward orders results by reward points, highest first.
	SortByReward bool
}

// Store is the catalog store. Safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	kv  storage.KV
	ads []model.Ad
	now func() time.Time

	// maxID is a high-water mark so ids stay unique across removals.
	maxID int64
}

// New loads the catalog from kv. Absent or corrupt data yields an empty
// catalog.
func New(kv storage.KV) *Store {
	s := &Store{kv: kv, now: time.Now}

	if raw, ok := kv.Load(storage.KeyAds); ok {
		var ads []model.Ad
		if err := json.Unmarshal(raw, &ads); err != nil {
			slog.Warn("catalog document corrupt, starting empty", "error", err)
		} else {
			s.ads = ads
		}
	}
	for _, ad := range s.ads {
		if ad.ID > s.maxID {
			s.maxID = ad.ID
		}
	}
	return s
}

// SetNow overrides the clock, for tests.
func (s *Store) SetNow(now func() time.Time) { s.now = now }

// List returns active ads matching q, as copies, in a deterministic order:
// insertion order, or descending reward when q.SortByReward is set.
func (s *Store) List(q Query) []model.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	var out []model.Ad
	for _, ad := range s.ads {
		if !ad.Active {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(ad.Title), needle) {
			continue
		}
		if q.MaxDurationSeconds > 0 && ad.DurationSeconds > q.MaxDurationSeconds {
			continue
		}
		out = append(out, ad)
	}
	if q.SortByReward {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RewardPoints > out[j].RewardPoints
		})
	}
	return out
}

// All returns every ad, active or not, in insertion order. Admin view.
func (s *Store) All() []model.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Ad(nil), s.ads...)
}

// Get returns the ad with the given id.
func (s *Store) Get(id int64) (model.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ad := range s.ads {
		if ad.ID == id {
			return ad, nil
		}
	}
	return model.Ad{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Add validates the draft, fills defaults, assigns a fresh id, and persists.
func (s *Store) Add(d Draft) (model.Ad, error) {
	if strings.TrimSpace(d.Title) == "" {
		return model.Ad{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(d.MediaRef) == "" {
		return model.Ad{}, fmt.Errorf("%w: media_ref is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ad := model.Ad{
		Title:           strings.TrimSpace(d.Title),
		ThumbnailRef:    strings.TrimSpace(d.ThumbnailRef),
		MediaRef:        strings.TrimSpace(d.MediaRef),
		DurationSeconds: d.DurationSeconds,
		RewardPoints:    d.RewardPoints,
		Active:          true,
		CreatedAt:       s.now().UTC(),
	}
	if ad.ThumbnailRef == "" {
		ad.ThumbnailRef = DefaultThumbnailRef
	}
	if ad.DurationSeconds <= 0 {
		ad.DurationSeconds = DefaultDurationSeconds
	}
	if ad.RewardPoints < 0 {
		ad.RewardPoints = DefaultRewardPoints
	}

	s.maxID++
	ad.ID = s.maxID
	s.ads = append(s.ads, ad)

	if err := s.persist(); err != nil {
		s.ads = s.ads[:len(s.ads)-1]
		s.maxID--
		return model.Ad{}, err
	}
	return ad, nil
}

// Edit applies the provided patch fields to the ad with the given id.
func (s *Store) Edit(id int64, p Patch) (model.Ad, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return model.Ad{}, fmt.Errorf("%w: title cannot be blank", ErrValidation)
	}
	if p.MediaRef != nil && strings.TrimSpace(*p.MediaRef) == "" {
		return model.Ad{}, fmt.Errorf("%w: media_ref cannot be blank", ErrValidation)
	}
	if p.DurationSeconds != nil && *p.DurationSeconds <= 0 {
		return model.Ad{}, fmt.Errorf("%w: duration_seconds must be positive", ErrValidation)
	}
	if p.RewardPoints != nil && *p.RewardPoints < 0 {
		return model.Ad{}, fmt.Errorf("%w: reward_points cannot be negative", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ads {
		if s.ads[i].ID != id {
			continue
		}
		prev := s.ads[i]
		if p.Title != nil {
			s.ads[i].Title = strings.TrimSpace(*p.Title)
		}
		if p.ThumbnailRef != nil {
			s.ads[i].ThumbnailRef = strings.TrimSpace(*p.ThumbnailRef)
		}
		if p.MediaRef != nil {
			s.ads[i].MediaRef = strings.TrimSpace(*p.MediaRef)
		}
		if p.DurationSeconds != nil {
			s.ads[i].DurationSeconds = *p.DurationSeconds
		}
		if p.RewardPoints != nil {
			s.ads[i].RewardPoints = *p.RewardPoints
		}
		if p.Active != nil {
			s.ads[i].Active = *p.Active
		}
		if err := s.persist(); err != nil {
			s.ads[i] = prev
			return model.Ad{}, err
		}
		return s.ads[i], nil
	}
	return model.Ad{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Remove deletes the ad with the given id. Removing an id that is already
// gone is an error, not a no-op.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ads {
		if s.ads[i].ID != id {
			continue
		}
		removed := s.ads[i]
		s.ads = append(s.ads[:i], s.ads[i+1:]...)
		if err := s.persist(); err != nil {
			s.ads = append(s.ads[:i], append([]model.Ad{removed}, s.ads[i:]...)...)
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// LoadDefaults replaces the catalog with the fixed demo seed set.
func (s *Store) LoadDefaults() []model.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.ads = []model.Ad{
		{ID: 1, Title: "Adidas — Run Fast", ThumbnailRef: "https://i.imgur.com/3ZQ3Z1R.jpg", MediaRef: "https://www.youtube.com/embed/ysz5S6PUM-U", DurationSeconds: 22, RewardPoints: 6, Active: true, CreatedAt: now},
		{ID: 2, Title: "Tesla — Model Demo", ThumbnailRef: "https://i.imgur.com/4AIqQpJ.jpg", MediaRef: "https://www.youtube.com/embed/tgbNymZ7vqY", DurationSeconds: 28, RewardPoints: 9, Active: true, CreatedAt: now},
		{ID: 3, Title: "Eco Drink — Nouveau goût", ThumbnailRef: "https://i.imgur.com/7b7QF1x.jpg", MediaRef: "https://www.youtube.com/embed/aqz-KE-bpKQ", DurationSeconds: 18, RewardPoints: 4, Active: true, CreatedAt: now},
	}
	if s.maxID < 3 {
		s.maxID = 3
	}
	if err := s.persist(); err != nil {
		slog.Error("persist seed catalog", "error", err)
	}
	return append([]model.Ad(nil), s.ads...)
}

// Len reports the number of stored ads, active or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ads)
}

// ActiveCount reports the number of active ads.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ad := range s.ads {
		if ad.Active {
			n++
		}
	}
	return n
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.ads)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return s.kv.Save(storage.KeyAds, raw)
}
