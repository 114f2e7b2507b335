package series

import "MetalBoard/internal/model"

// RecentWindow is the number of rows shown per table.
const RecentWindow = 7

// SelectRecent returns the last n records of an oldest-first slice, newest first.
// Shorter input yields a shorter result.
func SelectRecent(records []model.PriceRecord, n int) []model.PriceRecord {
	if n <= 0 || len(records) == 0 {
		return []model.PriceRecord{}
	}
	start := len(records) - n
	if start < 0 {
		start = 0
	}
	out := make([]model.PriceRecord, 0, len(records)-start)
	for i := len(records) - 1; i >= start; i-- {
		out = append(out, records[i])
	}
	return out
}

// Last7 is SelectRecent with the board's window.
func Last7(records []model.PriceRecord) []model.PriceRecord {
	return SelectRecent(records, RecentWindow)
}

// FilterPurity returns the records carrying the given purity label, order kept.
func FilterPurity(records []model.PriceRecord, purity string) []model.PriceRecord {
	out := make([]model.PriceRecord, 0, len(records))
	for _, r := range records {
		if r.Purity == purity {
			out = append(out, r)
		}
	}
	return out
}
