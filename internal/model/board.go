package model

import "time"

// Slot is one table on the board.
type Slot string

const (
	SlotGold24K Slot = "gold24"
	SlotGold22K Slot = "gold22"
	SlotSilver  Slot = "silver"
	SlotCopper  Slot = "copper"
)

// Slots lists the tables in display order.
var Slots = []Slot{SlotGold24K, SlotGold22K, SlotSilver, SlotCopper}

// Table is the newest-first window shown in one slot.
type Table struct {
	Slot      Slot          `json:"slot"`
	Commodity Commodity     `json:"commodity"`
	Rows      []PriceRecord `json:"rows"`
	Trends    []Trend       `json:"trends"`
	High      *float64      `json:"high,omitempty"`
	Low       *float64      `json:"low,omitempty"`
	Err       string        `json:"error,omitempty"`
}

// Board is the result of one build pass.
type Board struct {
	Tables  []Table              `json:"tables"`
	Errors  map[Commodity]string `json:"errors,omitempty"`
	BuiltAt time.Time            `json:"built_at"`
}

// Table returns the table for slot, or nil.
func (b *Board) Table(slot Slot) *Table {
	if b == nil {
		return nil
	}
	for i := range b.Tables {
		if b.Tables[i].Slot == slot {
			return &b.Tables[i]
		}
	}
	return nil
}
