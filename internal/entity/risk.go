package entity

// RiskLevel classifies a stock's manipulation risk for one scan date.
type RiskLevel string

const (
	RiskLevelLow          RiskLevel = "LOW"
	RiskLevelMedium       RiskLevel = "MEDIUM"
	RiskLevelHigh         RiskLevel = "HIGH"
	RiskLevelInsufficient RiskLevel = "INSUFFICIENT"
)

// AlertType classifies a risk-level transition between two consecutive
// snapshots of the same stock.
type AlertType string

const (
	AlertTypeNewHighRisk   AlertType = "NEW_HIGH_RISK"
	AlertTypeRiskIncreased AlertType = "RISK_INCREASED"
	AlertTypeRiskDecreased AlertType = "RISK_DECREASED"
	AlertTypePumpDetected  AlertType = "PUMP_DETECTED"
	AlertTypeDumpDetected  AlertType = "DUMP_DETECTED"
)

// WatchlistOutcome tracks what happened to a promoted ticker.
type WatchlistOutcome string

const (
	OutcomePumping WatchlistOutcome = "PUMPING"
	OutcomeDumped  WatchlistOutcome = "DUMPED"
)

// Signal markers matched as exact substrings of a snapshot's signal summary.
const (
	SignalSpikeThenDrop   = "SPIKE_THEN_DROP"
	SignalActiveSpike     = "SPIKE_7D"
	SignalVolumeExplosion = "VOLUME_EXPLOSION"
	SignalOverbought      = "OVERBOUGHT_RSI"
)
