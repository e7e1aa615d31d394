package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// StockSnapshot is the quote document consumed by the ticker. Price fields are
// kept as fixed two-decimal strings so the UI shows exactly what was written.
type StockSnapshot struct {
	Symbol        string    `json:"symbol" validate:"required"`
	Price         string    `json:"price" validate:"required,numeric"`
	Change        string    `json:"change" validate:"required,numeric"`
	ChangePercent string    `json:"changePercent" validate:"required,numeric"`
	IsPositive    bool      `json:"isPositive"`
	History       []float64 `json:"history"`
	LastUpdated   time.Time `json:"lastUpdated" validate:"required"`
}

var snapshotValidator = validator.New()

// Validate checks the snapshot carries every field the ticker reads.
func (s StockSnapshot) Validate() error {
	if err := snapshotValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid stock snapshot: %w", err)
	}
	return nil
}

// NewStockSnapshot builds a snapshot from raw numbers, formatting them the way
// the ticker expects. A nil history is stored as an empty list.
func NewStockSnapshot(symbol string, price, change, changePercent float64, history []float64, now time.Time) StockSnapshot {
	if history == nil {
		history = []float64{}
	}
	return StockSnapshot{
		Symbol:        symbol,
		Price:         FormatFixed(price),
		Change:        FormatFixed(change),
		ChangePercent: FormatFixed(changePercent),
		IsPositive:    change >= 0,
		History:       history,
		LastUpdated:   now.UTC(),
	}
}

// FormatFixed renders v with exactly two decimals.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
