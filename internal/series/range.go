package series

import (
	"errors"
	"math"

	"MetalBoard/internal/model"
)

// ErrNoPrices is returned when no row carries a usable high or low.
var ErrNoPrices = errors.New("no prices in window")

// Range scans a window and returns the highest high and lowest low.
// Rows with nil prices are skipped.
func Range(rows []model.PriceRecord) (high, low float64, err error) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, r := range rows {
		if r.High != nil && *r.High > high {
			high = *r.High
		}
		if r.Low != nil && *r.Low < low {
			low = *r.Low
		}
	}
	if math.IsInf(high, -1) || math.IsInf(low, 1) {
		return 0, 0, ErrNoPrices
	}
	return high, low, nil
}
