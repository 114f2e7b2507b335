package series

import (
	"encoding/json"
	"fmt"
	"testing"

	"MetalBoard/internal/model"
)

func p(v float64) *float64 { return model.Price(v) }

func TestNormalize_LegacyPerGram(t *testing.T) {
	rec := Normalize(model.RawRecord{Date: "2024-01-01", Purity: "24K", PricePerGramINR: p(6000), Source: "site"})
	if rec.Close == nil || *rec.Close != 6000 {
		t.Fatalf("expected close 6000, got %v", rec.Close)
	}
	for name, v := range map[string]*float64{"open": rec.Open, "high": rec.High, "low": rec.Low} {
		if v == nil || *v != 6000 {
			t.Errorf("expected %s to default to close, got %v", name, v)
		}
	}
	if rec.Source != "site" || rec.Purity != "24K" {
		t.Errorf("unexpected passthrough fields: %+v", rec)
	}
}

func TestNormalize_AliasPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  model.RawRecord
		want *float64
	}{
		{"close wins", model.RawRecord{Close: p(10), PricePerGramINR: p(20), PricePerKgINR: p(30)}, p(10)},
		{"gram before kg", model.RawRecord{PricePerGramINR: p(20), PricePerKgINR: p(30)}, p(20)},
		{"kg only", model.RawRecord{PricePerKgINR: p(30)}, p(30)},
		{"none", model.RawRecord{Date: "2024-01-01"}, nil},
	}
	for _, tt := range tests {
		rec := Normalize(tt.raw)
		switch {
		case tt.want == nil && rec.Close != nil:
			t.Errorf("%s: expected nil close, got %v", tt.name, *rec.Close)
		case tt.want != nil && (rec.Close == nil || *rec.Close != *tt.want):
			t.Errorf("%s: expected close %v, got %v", tt.name, *tt.want, rec.Close)
		}
	}
}

func TestNormalize_MalformedKeepsOHLCNil(t *testing.T) {
	rec := Normalize(model.RawRecord{Date: "2024-01-01"})
	if rec.Open != nil || rec.High != nil || rec.Low != nil || rec.Close != nil {
		t.Errorf("expected all prices nil, got %+v", rec)
	}
}

func TestNormalize_NullCloseFallsBack(t *testing.T) {
	var raw model.RawRecord
	if err := json.Unmarshal([]byte(`{"date":"2024-01-01","close":null,"price_per_gram_inr":6000}`), &raw); err != nil {
		t.Fatal(err)
	}
	rec := Normalize(raw)
	if rec.Close == nil || *rec.Close != 6000 {
		t.Errorf("expected null close to fall back to per-gram price, got %v", rec.Close)
	}
}

func TestNormalize_KeepsExplicitOHLC(t *testing.T) {
	rec := Normalize(model.RawRecord{Open: p(1), High: p(3), Low: p(0.5), Close: p(2)})
	if *rec.Open != 1 || *rec.High != 3 || *rec.Low != 0.5 || *rec.Close != 2 {
		t.Errorf("explicit OHLC overwritten: %+v", rec)
	}
}

func TestDedupe_LaterWins(t *testing.T) {
	in := []model.PriceRecord{
		{Date: "2024-01-01", Purity: "24K", Close: p(6000)},
		{Date: "2024-01-01", Purity: "22K", Close: p(5500)},
		{Date: "2024-01-01", Purity: "24K", Close: p(6100)},
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Purity != "24K" || *out[0].Close != 6100 {
		t.Errorf("expected later 24K record in first slot, got %+v", out[0])
	}
	if out[1].Purity != "22K" {
		t.Errorf("expected 22K second, got %+v", out[1])
	}
}

func TestDedupe_EmptyPurityKey(t *testing.T) {
	in := []model.PriceRecord{
		{Date: "2024-01-01", Close: p(70)},
		{Date: "2024-01-02", Close: p(71)},
		{Date: "2024-01-01", Close: p(72)},
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if *out[0].Close != 72 {
		t.Errorf("expected 72 for 2024-01-01, got %v", *out[0].Close)
	}
	if DedupeKey(in[0]) != "2024-01-01_" {
		t.Errorf("unexpected key %q", DedupeKey(in[0]))
	}
}

func ascending(n int) []model.PriceRecord {
	out := make([]model.PriceRecord, n)
	for i := range out {
		out[i] = model.PriceRecord{Date: fmt.Sprintf("2024-01-%02d", i+1), Close: p(float64(100 + i))}
	}
	return out
}

func TestSelectRecent_TenRecords(t *testing.T) {
	in := ascending(10)
	out := Last7(in)
	if len(out) != 7 {
		t.Fatalf("expected 7, got %d", len(out))
	}
	if out[0].Date != in[9].Date {
		t.Errorf("expected newest first %s, got %s", in[9].Date, out[0].Date)
	}
	if out[6].Date != in[3].Date {
		t.Errorf("expected oldest %s, got %s", in[3].Date, out[6].Date)
	}
}

func TestSelectRecent_Short(t *testing.T) {
	in := ascending(3)
	out := Last7(in)
	if len(out) != 3 {
		t.Fatalf("expected 3, got %d", len(out))
	}
	if out[0].Date != in[2].Date || out[2].Date != in[0].Date {
		t.Errorf("expected reversed order, got %v", out)
	}
	if got := SelectRecent(nil, 7); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		curr, prev *float64
		want       model.Trend
	}{
		{p(105), p(100), model.TrendUp},
		{p(95), p(100), model.TrendDown},
		{p(100), p(100), model.TrendSame},
		{p(100), nil, model.TrendSame},
		{nil, p(100), model.TrendSame},
		{nil, nil, model.TrendSame},
	}
	for _, tt := range tests {
		if got := Classify(tt.curr, tt.prev); got != tt.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", tt.curr, tt.prev, got, tt.want)
		}
	}
}

func TestTrends_NewestFirst(t *testing.T) {
	rows := []model.PriceRecord{{Close: p(110)}, {Close: p(100)}, {Close: p(120)}}
	got := Trends(rows)
	want := []model.Trend{model.TrendUp, model.TrendDown, model.TrendSame}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFilterPurity(t *testing.T) {
	rows := []model.PriceRecord{{Purity: "24K"}, {Purity: "22K"}, {Purity: "24K"}}
	if n := len(FilterPurity(rows, "24K")); n != 2 {
		t.Errorf("expected 2 24K rows, got %d", n)
	}
	if n := len(FilterPurity(rows, "18K")); n != 0 {
		t.Errorf("expected no 18K rows, got %d", n)
	}
}

func TestRange(t *testing.T) {
	rows := []model.PriceRecord{
		{High: p(110), Low: p(95)},
		{High: nil, Low: nil},
		{High: p(130), Low: p(101)},
	}
	high, low, err := Range(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 130 || low != 95 {
		t.Errorf("expected 130/95, got %.0f/%.0f", high, low)
	}
	if _, _, err := Range([]model.PriceRecord{{}}); err != ErrNoPrices {
		t.Errorf("expected ErrNoPrices, got %v", err)
	}
}
