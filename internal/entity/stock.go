package entity

import (
	"time"
)

// Stock is the persistent identity of a ticker symbol. Rows are created on
// first sighting and never deleted; descriptive fields are refreshed when the
// scanner reports different values.
type Stock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"uniqueIndex;not null" json:"symbol"`
	Name      string    `gorm:"not null" json:"name"`
	Exchange  string    `gorm:"not null" json:"exchange"`
	Sector    *string   `json:"sector,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	IsOTC     bool      `json:"is_otc"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
