package model

import "time"

// FreshnessState is the tracker's position in its refresh cycle.
type FreshnessState string

const (
	StateIdle     FreshnessState = "IDLE"
	StateCached   FreshnessState = "CACHED"
	StateFetching FreshnessState = "FETCHING"
	StateFresh    FreshnessState = "FRESH"
	StateError    FreshnessState = "ERROR"
)

// FreshnessCacheEntry is the persisted workflow timestamp.
// LastRun is an RFC3339 timestamp; SavedAt is epoch milliseconds.
type FreshnessCacheEntry struct {
	LastRun string `json:"lastRun"`
	SavedAt int64  `json:"savedAt"`
}

// FreshnessStatus is a point-in-time view of the tracker.
type FreshnessStatus struct {
	State     FreshnessState `json:"state"`
	LastRun   time.Time      `json:"last_run,omitempty"`
	NextRun   time.Time      `json:"next_run,omitempty"`
	Delayed   bool           `json:"delayed"`
	Err       string         `json:"error,omitempty"`
	CheckedAt time.Time      `json:"checked_at"`
}
