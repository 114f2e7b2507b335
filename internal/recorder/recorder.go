package recorder

import "MetalBoard/internal/model"

// BoardSnapshot holds one build pass for the history tables.
type BoardSnapshot struct {
	Board *model.Board
}

// FreshnessEvent holds one freshness check.
type FreshnessEvent struct {
	Status model.FreshnessStatus
	Source string
}

// Recorder persists board and freshness history for later analysis.
type Recorder interface {
	RecordBoard(snap *BoardSnapshot) error
	RecordFreshness(evt *FreshnessEvent) error
	Close() error
}
