// Package stats computes viewing summaries for the dashboard and API.
package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ypk/pubflix/internal/model"
)

// Summary aggregates the user's viewing history.
type Summary struct {
	Views             int     `json:"views"`
	Points            int     `json:"points"`
	WatchSeconds      int     `json:"watch_seconds"`
	MeanReward        float64 `json:"mean_reward"`
	StdDevReward      float64 `json:"stddev_reward"`
	ActiveAds         int     `json:"active_ads"`
	MeanWatchDuration float64 `json:"mean_watch_duration"`
}

// Summarize reduces a ledger snapshot to a Summary. activeAds is supplied by
// the catalog.
func Summarize(u model.UserLedger, activeAds int) Summary {
	s := Summary{
		Views:     len(u.History),
		Points:    u.Points,
		ActiveAds: activeAds,
	}
	if len(u.History) == 0 {
		return s
	}

	rewards := make([]float64, len(u.History))
	durations := make([]float64, len(u.History))
	for i, v := range u.History {
		rewards[i] = float64(v.RewardPoints)
		durations[i] = float64(v.DurationSeconds)
		s.WatchSeconds += v.DurationSeconds
	}

	s.MeanReward = stat.Mean(rewards, nil)
	s.MeanWatchDuration = stat.Mean(durations, nil)
	if len(rewards) > 1 {
		s.StdDevReward = stat.StdDev(rewards, nil)
	}
	return s
}
