package model

import "time"

// Ad is a catalog entry: a watchable promotional item with a reward value.
type Ad struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	ThumbnailRef    string    `json:"thumbnail_ref"`
	MediaRef        string    `json:"media_ref"`
	DurationSeconds int       `json:"duration_seconds"`
	RewardPoints    int       `json:"reward_points"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// AdSnapshot is the immutable slice of an Ad captured when a playback
// session starts. Later catalog edits or removals never touch it.
type AdSnapshot struct {
	AdID            int64  `json:"ad_id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	RewardPoints    int    `json:"reward_points"`
}

// Snapshot captures the fields a playback session cares about.
func (a Ad) Snapshot() AdSnapshot {
	return AdSnapshot{
		AdID:            a.ID,
		Title:           a.Title,
		DurationSeconds: a.DurationSeconds,
		RewardPoints:    a.RewardPoints,
	}
}

// ViewRecord is one completed, credited view in the user's history.
type ViewRecord struct {
	AdID            int64     `json:"ad_id"`
	Title           string    `json:"title"`
	RewardPoints    int       `json:"reward_points"`
	DurationSeconds int       `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}

// UserLedger is the single demo user's account: a display label, the point
// balance, and the append-only view history. Points always equal the sum of
// history rewards, except across an explicit reset.
type UserLedger struct {
	DisplayName string       `json:"display_name"`
	Points      int          `json:"points"`
	History     []ViewRecord `json:"history"`
}
