package board

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MetalBoard/internal/collector"
	"MetalBoard/internal/display"
	"MetalBoard/internal/model"
)

func newTestBuilder(loader collector.Loader, out string) (*Builder, *display.Surface) {
	surface := display.NewBoardSurface()
	return NewBuilder(collector.NewCollector(loader), surface, nil, out), surface
}

func TestBuild_GoldDuplicateKeepsLatest(t *testing.T) {
	loader := &collector.MockLoader{Data: map[model.Commodity][]model.RawRecord{
		model.Gold: {
			{Date: "2024-01-01", Purity: "24K", PricePerGramINR: model.Price(6000)},
			{Date: "2024-01-01", Purity: "24K", PricePerGramINR: model.Price(6100)},
		},
	}}
	b, surface := newTestBuilder(loader, "")

	board, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tbl := board.Table(model.SlotGold24K)
	if tbl == nil || len(tbl.Rows) != 1 {
		t.Fatalf("expected one 24K row, got %+v", tbl)
	}
	if *tbl.Rows[0].Close != 6100 {
		t.Errorf("expected close 6100, got %v", *tbl.Rows[0].Close)
	}

	r, _ := surface.Get(display.Gold24Table)
	html := string(r.HTML)
	if strings.Count(html, "<td>2024-01-01</td>") != 1 {
		t.Errorf("expected a single 2024-01-01 row, got %s", html)
	}
	if !strings.Contains(html, `<td class="same">6100</td>`) {
		t.Errorf("expected close 6100, got %s", html)
	}
	if surface.Text(display.Legend) != LegendText {
		t.Errorf("legend not set")
	}
}

func TestBuild_SplitsGoldByPurity(t *testing.T) {
	loader := &collector.MockLoader{Data: map[model.Commodity][]model.RawRecord{
		model.Gold: {
			{Date: "2024-01-01", Purity: "24K", Close: model.Price(6000)},
			{Date: "2024-01-01", Purity: "22K", Close: model.Price(5500)},
			{Date: "2024-01-02", Purity: "24K", Close: model.Price(6050)},
			{Date: "2024-01-02", Purity: "22K", Close: model.Price(5450)},
		},
	}}
	b, _ := newTestBuilder(loader, "")
	board, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g24 := board.Table(model.SlotGold24K)
	g22 := board.Table(model.SlotGold22K)
	if len(g24.Rows) != 2 || len(g22.Rows) != 2 {
		t.Fatalf("expected 2 rows each, got %d and %d", len(g24.Rows), len(g22.Rows))
	}
	if g24.Trends[0] != model.TrendUp || g22.Trends[0] != model.TrendDown {
		t.Errorf("unexpected trends: 24K=%v 22K=%v", g24.Trends, g22.Trends)
	}
	if *g24.High != 6050 || *g24.Low != 6000 {
		t.Errorf("unexpected 24K range %v/%v", *g24.High, *g24.Low)
	}
}

func TestBuild_IsolatesFailedCommodity(t *testing.T) {
	loader := &collector.MockLoader{
		Data: map[model.Commodity][]model.RawRecord{
			model.Silver: {{Date: "2024-01-01", PricePerKgINR: model.Price(75000)}},
		},
		Errors: map[model.Commodity]error{model.Copper: errors.New("404")},
	}
	b, surface := newTestBuilder(loader, "")
	board, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := board.Errors[model.Copper]; !ok {
		t.Error("expected copper error recorded")
	}
	copper, _ := surface.Get(display.CopperTable)
	if !strings.Contains(string(copper.HTML), display.Unavailable) {
		t.Errorf("expected Unavailable copper table, got %s", copper.HTML)
	}
	silver, _ := surface.Get(display.SilverTable)
	if !strings.Contains(string(silver.HTML), "75000") {
		t.Errorf("expected silver rendered, got %s", silver.HTML)
	}
	if b.Last() != board {
		t.Error("Last should return the latest board")
	}
}

func TestBuild_AllFail(t *testing.T) {
	boom := errors.New("down")
	loader := &collector.MockLoader{Errors: map[model.Commodity]error{
		model.Gold: boom, model.Silver: boom, model.Copper: boom,
	}}
	b, _ := newTestBuilder(loader, "")
	if _, err := b.Build(context.Background()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestBuild_WritesPage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site", "index.html")
	loader := &collector.MockLoader{Data: map[model.Commodity][]model.RawRecord{
		model.Copper: {{Date: "2024-01-01", Close: model.Price(812.5), Source: "lme"}},
	}}
	b, _ := newTestBuilder(loader, out)
	if _, err := b.Build(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), "812.5") || !strings.Contains(string(page), "lme") {
		t.Errorf("page missing copper row")
	}
}
