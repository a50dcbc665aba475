package dto

import "time"

// SocialMediaReport is the best-effort extraction of one markdown
// social-media/press report. Any field may be empty when the corresponding
// heuristic did not match.
type SocialMediaReport struct {
	ReportDate       time.Time
	Promoter         string
	PromotedStocks   []PromotedStockEvidence
	ActivePumps      []ActivePumpEntry
	PlatformMentions []PlatformMention
	SourceFile       string
}

// PromotedStockEvidence is one numbered ticker section of a report.
type PromotedStockEvidence struct {
	Symbol            string
	Name              string
	RiskScore         float64
	CurrentPrice      *float64
	PromotionPrice    *float64
	PeakPrice         *float64
	GainPct           *float64
	EvidenceLinks     []string
	PumpDumpConfirmed bool
}

// ActivePumpEntry is one row of a report's active-pump table: a ticker still
// rising with no detected drop.
type ActivePumpEntry struct {
	Symbol       string
	RiskScore    float64
	CurrentPrice *float64
	GainPct      *float64
}

// PlatformMention is a ticker+activity row picked up by the generic table
// pass, with the platform classified by substring.
type PlatformMention struct {
	Symbol   string
	Platform string
	Activity string
}
