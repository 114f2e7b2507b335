package series

import "MetalBoard/internal/model"

// Classify compares a close against the previous displayed close.
// Anything not strictly higher or lower, including a nil side, is "same".
func Classify(curr, prev *float64) model.Trend {
	if curr == nil || prev == nil {
		return model.TrendSame
	}
	switch {
	case *curr > *prev:
		return model.TrendUp
	case *curr < *prev:
		return model.TrendDown
	default:
		return model.TrendSame
	}
}

// Trends classifies each row of a newest-first window against the next
// (older) row. The oldest row has no neighbour and is "same".
func Trends(rows []model.PriceRecord) []model.Trend {
	out := make([]model.Trend, len(rows))
	for i := range rows {
		var prev *float64
		if i+1 < len(rows) {
			prev = rows[i+1].Close
		}
		out[i] = Classify(rows[i].Close, prev)
	}
	return out
}
