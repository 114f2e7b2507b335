package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"MetalBoard/internal/model"
)

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	body := `[{"date":"2024-01-01","purity":"24K","price_per_gram_inr":6000,"source":"site"},
	          {"date":"2024-01-02","purity":"24K","open":6010,"high":6050,"low":6000,"close":6040,"source":"site"}]`
	if err := os.WriteFile(filepath.Join(dir, "gold.json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	records, err := NewFileLoader(dir).Load(context.Background(), model.Gold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PricePerGramINR == nil || *records[0].PricePerGramINR != 6000 {
		t.Errorf("legacy field not decoded: %+v", records[0])
	}
	if records[1].Close == nil || *records[1].Close != 6040 {
		t.Errorf("close not decoded: %+v", records[1])
	}

	if _, err := NewFileLoader(dir).Load(context.Background(), model.Silver); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/silver.json":
			_, _ = w.Write([]byte(`[{"date":"2024-01-01","price_per_kg_inr":75000,"source":"mcx"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.URL+"/data/", "")
	records, err := loader.Load(context.Background(), model.Silver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || *records[0].PricePerKgINR != 75000 {
		t.Errorf("unexpected records: %+v", records)
	}
	if _, err := loader.Load(context.Background(), model.Copper); err == nil {
		t.Error("expected error for 404")
	}
}

func TestCollect_Pipeline(t *testing.T) {
	loader := &MockLoader{Data: map[model.Commodity][]model.RawRecord{
		model.Gold: {
			{Date: "2024-01-01", Purity: "24K", PricePerGramINR: model.Price(6000)},
			{Date: "2024-01-01", Purity: "24K", PricePerGramINR: model.Price(6100)},
		},
	}}
	recent, err := NewCollector(loader).Collect(context.Background(), model.Gold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 row, got %d", len(recent))
	}
	if *recent[0].Close != 6100 || *recent[0].Open != 6100 {
		t.Errorf("expected later record with close 6100, got %+v", recent[0])
	}
}

func TestCollectAll_IsolatesFailures(t *testing.T) {
	loader := &MockLoader{
		Data: map[model.Commodity][]model.RawRecord{
			model.Silver: {{Date: "2024-01-01", Close: model.Price(70)}},
		},
		Errors: map[model.Commodity]error{model.Copper: errors.New("boom")},
	}
	results := NewCollector(loader).CollectAll(context.Background(), model.Commodities)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Commodity != model.Gold || results[0].Err != nil || len(results[0].Recent) != 0 {
		t.Errorf("unexpected gold result: %+v", results[0])
	}
	if results[1].Err != nil || len(results[1].Recent) != 1 {
		t.Errorf("unexpected silver result: %+v", results[1])
	}
	if results[2].Err == nil {
		t.Error("expected copper error")
	}
}
