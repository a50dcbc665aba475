package entity

import (
	"time"
)

// PromotedStockWatchlist tracks a promoted ticker's outcome over time. One row
// per (symbol, first-seen date); repeat sightings for the same key refresh the
// current price, gain and outcome only.
type PromotedStockWatchlist struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Symbol       string           `gorm:"uniqueIndex:idx_watchlist_symbol_added;not null" json:"symbol"`
	AddedDate    time.Time        `gorm:"uniqueIndex:idx_watchlist_symbol_added;type:date;not null" json:"added_date"`
	EntryPrice   *float64         `json:"entry_price,omitempty"`
	EntryScore   float64          `json:"entry_score"`
	CurrentPrice *float64         `json:"current_price,omitempty"`
	PeakPrice    *float64         `json:"peak_price,omitempty"`
	GainPct      *float64         `json:"gain_pct,omitempty"`
	Outcome      WatchlistOutcome `gorm:"not null" json:"outcome"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PromotedStockWatchlist) TableName() string {
	return "promoted_stock_watchlist"
}
