package notifier

import (
	"fmt"
	"strings"
	"time"

	"MetalBoard/internal/freshness"
	"MetalBoard/internal/model"
	"MetalBoard/internal/render"
)

var slotLabels = map[model.Slot]string{
	model.SlotGold24K: "Gold 24K",
	model.SlotGold22K: "Gold 22K",
	model.SlotSilver:  "Silver",
	model.SlotCopper:  "Copper",
}

var trendMarks = map[model.Trend]string{
	model.TrendUp:   "🔴▲",
	model.TrendDown: "🟢▼",
	model.TrendSame: "▪",
}

// FormatDelayAlert formats the message sent when the refresh workflow is overdue.
func FormatDelayAlert(status model.FreshnessStatus, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("⚠️ <b>Price refresh delayed</b>\n\n")
	b.WriteString(fmt.Sprintf("Last run: %s\n", freshness.FormatTime(status.LastRun, loc)))
	b.WriteString(fmt.Sprintf("Expected: %s\n", freshness.FormatTime(status.NextRun, loc)))
	return b.String()
}

// FormatStatus formats the freshness status for the /status command.
func FormatStatus(status model.FreshnessStatus, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🕒 <b>Data freshness</b>\n\n")
	if status.State == model.StateError || status.LastRun.IsZero() {
		b.WriteString("Last updated: Unavailable\n")
		b.WriteString("Next update: Unavailable\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last updated: %s\n", freshness.FormatTime(status.LastRun, loc)))
	b.WriteString(fmt.Sprintf("Next update: %s\n", freshness.NextText(status.NextRun, status.Delayed, loc)))
	b.WriteString(fmt.Sprintf("Source: %s\n", strings.ToLower(string(status.State))))
	return b.String()
}

// FormatPrices formats the newest row of every table for the /prices command.
func FormatPrices(board *model.Board) string {
	if board == nil {
		return "Prices: Unavailable"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Metal prices</b> | %s\n\n", board.BuiltAt.Format("2006-01-02 15:04")))
	for _, tbl := range board.Tables {
		label := slotLabels[tbl.Slot]
		if tbl.Err != "" || len(tbl.Rows) == 0 {
			b.WriteString(fmt.Sprintf("%s: Unavailable\n", label))
			continue
		}
		row := tbl.Rows[0]
		b.WriteString(fmt.Sprintf("%s: %s %s (%s)\n", label, render.FormatPrice(row.Close), trendMarks[tbl.Trends[0]], row.Date))
		if tbl.High != nil && tbl.Low != nil {
			b.WriteString(fmt.Sprintf("   7d range: %s – %s\n", render.FormatPrice(tbl.Low), render.FormatPrice(tbl.High)))
		}
	}
	return b.String()
}
