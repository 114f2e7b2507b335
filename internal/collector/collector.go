package collector

import (
	"context"
	"fmt"
	"log"
	"sync"

	"MetalBoard/internal/model"
	"MetalBoard/internal/series"
)

// MockLoader returns fixed datasets for development and testing.
type MockLoader struct {
	Data   map[model.Commodity][]model.RawRecord
	Errors map[model.Commodity]error
}

func (m *MockLoader) Name() string { return "mock" }

func (m *MockLoader) Load(_ context.Context, commodity model.Commodity) ([]model.RawRecord, error) {
	if err, ok := m.Errors[commodity]; ok {
		return nil, err
	}
	return m.Data[commodity], nil
}

// Result is the recent window for one commodity, or the error that prevented it.
type Result struct {
	Commodity model.Commodity
	Recent    []model.PriceRecord
	Err       error
}

// Collector runs datasets through normalize, dedupe and recent selection.
type Collector struct {
	Loader Loader
	Window int
}

// NewCollector creates a Collector with the board's seven-row window.
func NewCollector(loader Loader) *Collector {
	return &Collector{Loader: loader, Window: series.RecentWindow}
}

// Collect loads one commodity and returns its newest-first window.
func (c *Collector) Collect(ctx context.Context, commodity model.Commodity) ([]model.PriceRecord, error) {
	raw, err := c.Loader.Load(ctx, commodity)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", commodity, err)
	}
	records := series.Dedupe(series.NormalizeAll(raw))

	malformed := 0
	for _, r := range records {
		if r.Close == nil {
			malformed++
		}
	}
	if malformed > 0 {
		log.Printf("[WARN] %s: %d record(s) without a close price", commodity, malformed)
	}

	return series.SelectRecent(records, c.Window), nil
}

// CollectAll loads every commodity concurrently. Results keep the order of
// commodities; a failure affects only its own entry.
func (c *Collector) CollectAll(ctx context.Context, commodities []model.Commodity) []Result {
	results := make([]Result, len(commodities))
	var wg sync.WaitGroup
	for i, commodity := range commodities {
		wg.Add(1)
		go func(i int, commodity model.Commodity) {
			defer wg.Done()
			recent, err := c.Collect(ctx, commodity)
			results[i] = Result{Commodity: commodity, Recent: recent, Err: err}
		}(i, commodity)
	}
	wg.Wait()
	return results
}
