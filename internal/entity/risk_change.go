package entity

import (
	"time"

	"github.com/lib/pq"
)

// RiskChange is the append-only historical companion of RiskAlert, keyed by
// symbol and date range rather than a surrogate alert id. It carries the full
// cross-run delta and backs trend queries.
type RiskChange struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Symbol            string         `gorm:"uniqueIndex:idx_change_symbol_range;not null" json:"symbol"`
	FromDate          time.Time      `gorm:"uniqueIndex:idx_change_symbol_range;type:date;not null" json:"from_date"`
	ToDate            time.Time      `gorm:"uniqueIndex:idx_change_symbol_range;type:date;not null" json:"to_date"`
	PreviousRiskLevel RiskLevel      `gorm:"not null" json:"previous_risk_level"`
	NewRiskLevel      RiskLevel      `gorm:"not null" json:"new_risk_level"`
	ScoreChange       float64        `json:"score_change"`
	PriceChange       *float64       `json:"price_change,omitempty"`
	PriceChangePct    *float64       `json:"price_change_pct,omitempty"`
	NewSignals        pq.StringArray `gorm:"type:text[]" json:"new_signals"`
	RemovedSignals    pq.StringArray `gorm:"type:text[]" json:"removed_signals"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (RiskChange) TableName() string {
	return "risk_changes"
}
