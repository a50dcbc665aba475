package entity

import (
	"time"

	"github.com/lib/pq"
)

// DailySnapshot is one stock's risk assessment for one calendar date, the
// atomic unit of historical state. At most one row exists per (stock, date);
// same-day re-ingestion overwrites the row in full.
type DailySnapshot struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StockID         uint           `gorm:"uniqueIndex:idx_snapshot_stock_date;not null" json:"stock_id"`
	Stock           *Stock         `gorm:"foreignKey:StockID" json:"stock,omitempty"`
	ScanDate        time.Time      `gorm:"uniqueIndex:idx_snapshot_stock_date;type:date;not null" json:"scan_date"`
	RiskLevel       RiskLevel      `gorm:"not null" json:"risk_level"`
	TotalScore      float64        `gorm:"not null" json:"total_score"`
	IsLegitimate    bool           `json:"is_legitimate"`
	IsInsufficient  bool           `json:"is_insufficient"`
	LastPrice       *float64       `json:"last_price,omitempty"`
	MarketCap       *float64       `json:"market_cap,omitempty"`
	Signals         pq.StringArray `gorm:"type:text[]" json:"signals"`
	SignalSummary   string         `json:"signal_summary"`
	SignalCount     int            `json:"signal_count"`
	PriceDataSource string         `json:"price_data_source"`
	EvaluatedAt     time.Time      `json:"evaluated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}
