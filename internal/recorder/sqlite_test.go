package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MetalBoard/internal/model"
)

func TestSQLiteRecorder(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	board := &model.Board{
		BuiltAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Tables: []model.Table{{
			Slot:      model.SlotSilver,
			Commodity: model.Silver,
			Rows: []model.PriceRecord{
				{Date: "2024-01-02", Close: model.Price(75100)},
				{Date: "2024-01-01"},
			},
			Trends: []model.Trend{model.TrendUp, model.TrendSame},
		}},
		Errors: map[model.Commodity]string{model.Copper: "load copper: boom"},
	}
	if err := rec.RecordBoard(&BoardSnapshot{Board: board}); err != nil {
		t.Fatalf("record board: %v", err)
	}
	if err := rec.RecordFreshness(&FreshnessEvent{Status: model.FreshnessStatus{State: model.StateError, Err: "x"}, Source: "github"}); err != nil {
		t.Fatalf("record freshness: %v", err)
	}

	for table, want := range map[string]int{"board_rows": 2, "board_errors": 1, "freshness_checks": 1} {
		n, err := rec.CountRows(table)
		if err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != want {
			t.Errorf("%s: expected %d rows, got %d", table, want, n)
		}
	}
	if _, err := rec.CountRows("sqlite_master"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestNewSQLiteRecorder_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "history.db")
	rec, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	n, err := rec.CountRows("board_rows")
	if err != nil || n != 0 {
		t.Errorf("expected empty board_rows, got %d (%v)", n, err)
	}
}
