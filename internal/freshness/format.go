package freshness

import (
	"fmt"
	"time"
)

// DisplayLayout is how run times appear on the board.
const DisplayLayout = "2006-01-02 15:04:05 MST"

// isoLayout matches the millisecond ISO form stored in the cache.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

const delayedSuffix = " ⚠ delayed"

// FormatTime renders t in loc with DisplayLayout.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// NextText is the static next-run line, flagged when the run is overdue.
func NextText(nextRun time.Time, delayed bool, loc *time.Location) string {
	s := FormatTime(nextRun, loc)
	if delayed {
		s += delayedSuffix
	}
	return s
}

// CountdownText renders the next run with the whole seconds left.
func CountdownText(nextRun time.Time, remaining time.Duration, loc *time.Location) string {
	total := int64(remaining / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%s (in %dh %dm %ds)", FormatTime(nextRun, loc), hours, minutes, seconds)
}
