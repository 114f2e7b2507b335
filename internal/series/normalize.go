package series

import "MetalBoard/internal/model"

// Normalize maps a raw dataset entry to the canonical OHLC shape.
// A missing close falls back to price_per_gram_inr, then price_per_kg_inr.
// Open, high and low fall back to close, which may itself still be nil.
func Normalize(r model.RawRecord) model.PriceRecord {
	rec := model.PriceRecord{
		Date:   r.Date,
		Purity: r.Purity,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Source: r.Source,
	}

	if rec.Close == nil {
		switch {
		case r.PricePerGramINR != nil:
			rec.Close = r.PricePerGramINR
		case r.PricePerKgINR != nil:
			rec.Close = r.PricePerKgINR
		}
	}

	if rec.Open == nil {
		rec.Open = rec.Close
	}
	if rec.High == nil {
		rec.High = rec.Close
	}
	if rec.Low == nil {
		rec.Low = rec.Close
	}
	return rec
}

// NormalizeAll normalizes every record of a dataset, keeping input order.
func NormalizeAll(raw []model.RawRecord) []model.PriceRecord {
	out := make([]model.PriceRecord, len(raw))
	for i, r := range raw {
		out[i] = Normalize(r)
	}
	return out
}
