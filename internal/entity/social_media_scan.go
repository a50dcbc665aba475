package entity

import (
	"time"

	"github.com/lib/pq"
)

// SocialMediaScan records promotion evidence for one stock on one scan date.
// Upserted like DailySnapshot on (stock, date).
type SocialMediaScan struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	StockID           uint           `gorm:"uniqueIndex:idx_social_stock_date;not null" json:"stock_id"`
	Stock             *Stock         `gorm:"foreignKey:StockID" json:"stock,omitempty"`
	ScanDate          time.Time      `gorm:"uniqueIndex:idx_social_stock_date;type:date;not null" json:"scan_date"`
	Platform          string         `json:"platform"`
	Promoter          string         `json:"promoter"`
	RiskScore         float64        `json:"risk_score"`
	PromotionPrice    *float64       `json:"promotion_price,omitempty"`
	PeakPrice         *float64       `json:"peak_price,omitempty"`
	CurrentPrice      *float64       `json:"current_price,omitempty"`
	GainPct           *float64       `json:"gain_pct,omitempty"`
	EvidenceLinks     pq.StringArray `gorm:"type:text[]" json:"evidence_links"`
	PumpDumpConfirmed bool           `json:"pump_dump_confirmed"`
	Notes             string         `json:"notes"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SocialMediaScan) TableName() string {
	return "social_media_scans"
}
