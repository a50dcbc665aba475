package entity

import (
	"time"

	"github.com/lib/pq"
)

// RiskAlert is an append-only event recording one risk-level transition.
// The unique index on (stock_id, alert_date, alert_type) makes detection
// idempotent: a racing second run converges instead of double-counting.
type RiskAlert struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	StockID           uint           `gorm:"uniqueIndex:idx_alert_stock_date_type;not null" json:"stock_id"`
	Stock             *Stock         `gorm:"foreignKey:StockID" json:"stock,omitempty"`
	AlertDate         time.Time      `gorm:"uniqueIndex:idx_alert_stock_date_type;type:date;not null" json:"alert_date"`
	AlertType         AlertType      `gorm:"uniqueIndex:idx_alert_stock_date_type;not null" json:"alert_type"`
	PreviousRiskLevel RiskLevel      `gorm:"not null" json:"previous_risk_level"`
	NewRiskLevel      RiskLevel      `gorm:"not null" json:"new_risk_level"`
	PreviousScore     float64        `json:"previous_score"`
	NewScore          float64        `json:"new_score"`
	Signals           pq.StringArray `gorm:"type:text[]" json:"signals"`
	Price             *float64       `json:"price,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (RiskAlert) TableName() string {
	return "risk_alerts"
}
