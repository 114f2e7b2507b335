package series

import "MetalBoard/internal/model"

// DedupeKey is the identity of a record: date and purity joined by "_".
func DedupeKey(r model.PriceRecord) string {
	return r.Date + "_" + r.Purity
}

// Dedupe keeps one record per (date, purity). A later record replaces an
// earlier one in place, so the output follows the order in which each key
// first appeared.
func Dedupe(records []model.PriceRecord) []model.PriceRecord {
	index := make(map[string]int, len(records))
	out := make([]model.PriceRecord, 0, len(records))
	for _, r := range records {
		key := DedupeKey(r)
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}
