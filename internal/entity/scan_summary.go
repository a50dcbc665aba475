package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ScanSummary holds the cross-sectional statistics of one daily scan. One row
// per calendar date; re-running a day's ingestion overwrites it in full.
type ScanSummary struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ScanDate          time.Time      `gorm:"uniqueIndex;type:date;not null" json:"scan_date"`
	TotalStocks       int            `json:"total_stocks"`
	EvaluatedStocks   int            `json:"evaluated_stocks"`
	SkippedStocks     int            `json:"skipped_stocks"`
	LowRiskCount      int            `json:"low_risk_count"`
	MediumRiskCount   int            `json:"medium_risk_count"`
	HighRiskCount     int            `json:"high_risk_count"`
	InsufficientCount int            `json:"insufficient_count"`

	// Derived pattern tallies, counted by marker substring over every
	// result's signal summary.
	SpikeThenDropCount   int `json:"spike_then_drop_count"`
	ActiveSpikeCount     int `json:"active_spike_count"`
	VolumeExplosionCount int `json:"volume_explosion_count"`
	OverboughtCount      int `json:"overbought_count"`

	SectorBreakdown   datatypes.JSON `gorm:"type:jsonb" json:"sector_breakdown"`
	ExchangeBreakdown datatypes.JSON `gorm:"type:jsonb" json:"exchange_breakdown"`

	ScanStartedAt  *time.Time `json:"scan_started_at,omitempty"`
	ScanFinishedAt *time.Time `json:"scan_finished_at,omitempty"`
	DurationSecs   float64    `json:"duration_secs"`
	APICallCount   int        `json:"api_call_count"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScanSummary) TableName() string {
	return "scan_summaries"
}
