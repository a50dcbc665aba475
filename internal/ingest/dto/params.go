package dto

import "time"

// FindAlertsParams filters risk alert queries.
type FindAlertsParams struct {
	Symbol    string
	AlertType string
	RiskLevel string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// FindChangesParams filters risk change queries.
type FindChangesParams struct {
	Symbol string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// FindSnapshotsParams filters daily snapshot queries.
type FindSnapshotsParams struct {
	Symbol    string
	RiskLevel string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// FindWatchlistParams filters promoted-stock watchlist queries.
type FindWatchlistParams struct {
	Outcome string
	From    *time.Time
	To      *time.Time
	Limit   int
}

// FindSocialScansParams filters social media scan queries.
type FindSocialScansParams struct {
	Symbol   string
	Platform string
	From     *time.Time
	To       *time.Time
	Limit    int
}
