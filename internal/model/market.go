package model

// Commodity identifies one precomputed dataset.
type Commodity string

const (
	Gold   Commodity = "gold"
	Silver Commodity = "silver"
	Copper Commodity = "copper"
)

// Commodities lists every dataset the board loads, in display order.
var Commodities = []Commodity{Gold, Silver, Copper}

// Gold purity labels used to split the gold table.
const (
	Purity24K = "24K"
	Purity22K = "22K"
)

// RawRecord is one entry of a commodity dataset as written by the scraper.
// Older files carry only the per-gram or per-kilogram price instead of OHLC.
type RawRecord struct {
	Date            string   `json:"date"`
	Purity          string   `json:"purity,omitempty"`
	Open            *float64 `json:"open,omitempty"`
	High            *float64 `json:"high,omitempty"`
	Low             *float64 `json:"low,omitempty"`
	Close           *float64 `json:"close,omitempty"`
	PricePerGramINR *float64 `json:"price_per_gram_inr,omitempty"`
	PricePerKgINR   *float64 `json:"price_per_kg_inr,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// PriceRecord is the canonical OHLC row. A nil price means the input did not
// carry it; Close is nil only for malformed records.
type PriceRecord struct {
	Date   string   `json:"date"`
	Purity string   `json:"purity,omitempty"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Source string   `json:"source"`
}

// Trend tags a close price against the previous displayed close.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// Price returns a pointer to v, handy for building records in code.
func Price(v float64) *float64 { return &v }
