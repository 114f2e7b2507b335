package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"MetalBoard/internal/collector"
	"MetalBoard/internal/display"
	"MetalBoard/internal/model"
	"MetalBoard/internal/recorder"
	"MetalBoard/internal/render"
	"MetalBoard/internal/series"
)

// LegendText explains the close-cell colours.
const LegendText = "🔴 Close ↑ vs yesterday | 🟢 Close ↓ vs yesterday | OHLC aggregated hourly"

// ErrNoData is returned when every commodity failed to load.
var ErrNoData = errors.New("no commodity dataset could be loaded")

var slotRegions = map[model.Slot]string{
	model.SlotGold24K: display.Gold24Table,
	model.SlotGold22K: display.Gold22Table,
	model.SlotSilver:  display.SilverTable,
	model.SlotCopper:  display.CopperTable,
}

// Builder runs one board pass: collect, split gold by purity, render every
// table region, record history and optionally write the static page.
type Builder struct {
	Collector  *collector.Collector
	Surface    *display.Surface
	Recorder   recorder.Recorder
	OutputPath string
	Title      string

	now  func() time.Time
	mu   sync.RWMutex
	last *model.Board
}

// NewBuilder creates a Builder. outputPath may be empty.
func NewBuilder(col *collector.Collector, surface *display.Surface, rec recorder.Recorder, outputPath string) *Builder {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Builder{
		Collector:  col,
		Surface:    surface,
		Recorder:   rec,
		OutputPath: outputPath,
		now:        time.Now,
	}
}

// Build renders the board. A commodity that fails to load shows
// "Unavailable" in its own tables only; Build fails only when all do.
func (b *Builder) Build(ctx context.Context) (*model.Board, error) {
	results := b.Collector.CollectAll(ctx, model.Commodities)

	board := &model.Board{BuiltAt: b.now(), Errors: map[model.Commodity]string{}}
	for _, res := range results {
		if res.Err != nil {
			log.Printf("[ERROR] build %s table: %v", res.Commodity, res.Err)
			board.Errors[res.Commodity] = res.Err.Error()
		}
		board.Tables = append(board.Tables, tablesFor(res)...)
	}

	for _, tbl := range board.Tables {
		b.renderTable(tbl)
	}
	if err := b.Surface.SetText(display.Legend, LegendText); err != nil {
		log.Printf("[WARN] set legend: %v", err)
	}

	b.mu.Lock()
	b.last = board
	b.mu.Unlock()

	if err := b.Recorder.RecordBoard(&recorder.BoardSnapshot{Board: board}); err != nil {
		log.Printf("[ERROR] record board: %v", err)
	}
	if b.OutputPath != "" {
		if err := b.WritePage(b.OutputPath); err != nil {
			log.Printf("[ERROR] write page: %v", err)
		}
	}

	if len(board.Errors) == len(results) {
		return board, ErrNoData
	}
	log.Printf("[INFO] board built: %d table(s), %d failed commodit(ies)", len(board.Tables), len(board.Errors))
	return board, nil
}

type slotRows struct {
	slot model.Slot
	rows []model.PriceRecord
}

// tablesFor maps one commodity result to its display slots. Gold is split by
// purity after the recent window is taken.
func tablesFor(res collector.Result) []model.Table {
	var slots []slotRows
	switch res.Commodity {
	case model.Gold:
		slots = []slotRows{
			{model.SlotGold24K, series.FilterPurity(res.Recent, model.Purity24K)},
			{model.SlotGold22K, series.FilterPurity(res.Recent, model.Purity22K)},
		}
	case model.Silver:
		slots = []slotRows{{model.SlotSilver, res.Recent}}
	case model.Copper:
		slots = []slotRows{{model.SlotCopper, res.Recent}}
	}

	tables := make([]model.Table, 0, len(slots))
	for _, s := range slots {
		tbl := model.Table{Slot: s.slot, Commodity: res.Commodity}
		if res.Err != nil {
			tbl.Err = display.Unavailable
		} else {
			tbl.Rows = s.rows
			tbl.Trends = series.Trends(s.rows)
			if high, low, err := series.Range(s.rows); err == nil {
				tbl.High = model.Price(high)
				tbl.Low = model.Price(low)
			}
		}
		tables = append(tables, tbl)
	}
	return tables
}

func (b *Builder) renderTable(tbl model.Table) {
	region, ok := slotRegions[tbl.Slot]
	if !ok {
		return
	}
	html := render.Unavailable()
	if tbl.Err == "" {
		html = render.Table(tbl.Rows)
	}
	if err := b.Surface.SetHTML(region, html); err != nil {
		log.Printf("[ERROR] render %s: %v", tbl.Slot, err)
	}
}

// Last returns the most recent board, or nil before the first build.
func (b *Builder) Last() *model.Board {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// Page renders the current surface as a full HTML page.
func (b *Builder) Page() ([]byte, error) {
	return render.Page(render.PageData{
		Title:       b.Title,
		Regions:     b.Surface.Snapshot(),
		GeneratedAt: b.now(),
	})
}

// WritePage renders the page and writes it to path.
func (b *Builder) WritePage(path string) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, page, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
