package dto

import "time"

// EvaluationResult is one per-symbol record from a daily evaluation file.
type EvaluationResult struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Exchange        string    `json:"exchange"`
	Sector          *string   `json:"sector,omitempty"`
	Industry        *string   `json:"industry,omitempty"`
	RiskLevel       string    `json:"riskLevel"`
	TotalScore      float64   `json:"totalScore"`
	IsLegitimate    bool      `json:"isLegitimate"`
	IsInsufficient  bool      `json:"isInsufficient"`
	LastPrice       *float64  `json:"lastPrice,omitempty"`
	MarketCap       *float64  `json:"marketCap,omitempty"`
	Signals         []string  `json:"signals"`
	SignalSummary   string    `json:"signalSummary"`
	PriceDataSource string    `json:"priceDataSource"`
	EvaluatedAt     time.Time `json:"evaluatedAt"`
}

// EvaluationSummary is the optional aggregate record accompanying a daily
// evaluation file. Downstream stages must tolerate its absence.
type EvaluationSummary struct {
	TotalStocks       int            `json:"totalStocks"`
	EvaluatedStocks   int            `json:"evaluatedStocks"`
	SkippedStocks     int            `json:"skippedStocks"`
	LowRiskCount      int            `json:"lowRiskCount"`
	MediumRiskCount   int            `json:"mediumRiskCount"`
	HighRiskCount     int            `json:"highRiskCount"`
	InsufficientCount int            `json:"insufficientCount"`
	ExchangeBreakdown map[string]int `json:"exchangeBreakdown"`
	ScanStartedAt     *time.Time     `json:"scanStartedAt,omitempty"`
	ScanFinishedAt    *time.Time     `json:"scanFinishedAt,omitempty"`
	DurationSecs      float64        `json:"durationSecs"`
	APICallCount      int            `json:"apiCallCount"`
}
