package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/telegram"
	"scamdunk-ingest/pkg/utils"
)

// DetectionReport summarizes one detection pass.
type DetectionReport struct {
	ScanDate       time.Time
	PreviousDate   *time.Time
	Compared       int
	Transitions    int
	AlertsCreated  int
	ChangesCreated int
	Errors         int
}

// RiskChangeDetector compares today's snapshot set against the most recent
// prior day's per stock, classifies each transition and emits alert and
// change-history records.
type RiskChangeDetector interface {
	Detect(ctx context.Context, scanDate time.Time, dryRun bool) (*DetectionReport, error)
}

// NewRiskChangeDetector creates a RiskChangeDetector. The notifier may be nil,
// in which case no digest is sent.
func NewRiskChangeDetector(
	snapshotRepo repository.DailySnapshotRepository,
	summaryRepo repository.ScanSummaryRepository,
	alertRepo repository.RiskAlertRepository,
	changeRepo repository.RiskChangeRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) RiskChangeDetector {
	return &riskChangeDetector{
		snapshotRepo: snapshotRepo,
		summaryRepo:  summaryRepo,
		alertRepo:    alertRepo,
		changeRepo:   changeRepo,
		notifier:     notifier,
		logger:       log,
	}
}

type riskChangeDetector struct {
	snapshotRepo repository.DailySnapshotRepository
	summaryRepo  repository.ScanSummaryRepository
	alertRepo    repository.RiskAlertRepository
	changeRepo   repository.RiskChangeRepository
	notifier     telegram.Notifier
	logger       *logger.Logger
}

func (d *riskChangeDetector) Detect(ctx context.Context, scanDate time.Time, dryRun bool) (*DetectionReport, error) {
	report := &DetectionReport{ScanDate: scanDate}

	prevDate, err := d.summaryRepo.GetLatestScanDateBefore(ctx, scanDate)
	if err != nil {
		return nil, fmt.Errorf("find previous scan date: %w", err)
	}
	if prevDate == nil {
		// First-ever run: nothing to compare against.
		d.logger.InfoContext(ctx, "No earlier scan found, skipping risk change detection",
			logger.StringField("scan_date", utils.FormatDate(scanDate)))
		return report, nil
	}
	report.PreviousDate = prevDate

	previous, err := d.snapshotRepo.GetByScanDate(ctx, *prevDate)
	if err != nil {
		return nil, fmt.Errorf("load previous snapshots: %w", err)
	}
	current, err := d.snapshotRepo.GetByScanDate(ctx, scanDate)
	if err != nil {
		return nil, fmt.Errorf("load current snapshots: %w", err)
	}

	prevByStock := make(map[uint]entity.DailySnapshot, len(previous))
	for _, snap := range previous {
		prevByStock[snap.StockID] = snap
	}

	var alerts []entity.RiskAlert
	for i := range current {
		cur := &current[i]
		prev, ok := prevByStock[cur.StockID]
		if !ok {
			// Stock newly evaluated, no transition to report.
			continue
		}
		report.Compared++

		if prev.RiskLevel == cur.RiskLevel {
			// A score move within the same bucket is intentionally not
			// alertable.
			continue
		}

		alert, change := buildTransition(&prev, cur, *prevDate, scanDate)
		report.Transitions++

		if dryRun {
			alerts = append(alerts, *alert)
			continue
		}

		inserted, err := d.alertRepo.Create(ctx, alert)
		if err != nil {
			report.Errors++
			d.logger.Error("Failed to create risk alert",
				logger.ErrorField(err), logger.StringField("symbol", symbolOf(cur)))
			continue
		}
		if inserted {
			report.AlertsCreated++
		}

		if _, err := d.changeRepo.Create(ctx, change); err != nil {
			report.Errors++
			d.logger.Error("Failed to create risk change",
				logger.ErrorField(err), logger.StringField("symbol", symbolOf(cur)))
			continue
		}
		report.ChangesCreated++
		alerts = append(alerts, *alert)
	}

	d.logger.InfoContext(ctx, "Risk change detection finished",
		logger.StringField("scan_date", utils.FormatDate(scanDate)),
		logger.StringField("previous_date", utils.FormatDate(*prevDate)),
		logger.IntField("compared", report.Compared),
		logger.IntField("transitions", report.Transitions),
		logger.IntField("errors", report.Errors))

	if d.notifier != nil && !dryRun && len(alerts) > 0 {
		if err := d.notifier.SendMessage(formatAlertDigest(scanDate, alerts)); err != nil {
			d.logger.Warn("Failed to send alert digest", logger.ErrorField(err))
		}
	}

	return report, nil
}

// buildTransition classifies one risk-level transition and derives the full
// cross-run delta.
func buildTransition(prev, cur *entity.DailySnapshot, fromDate, toDate time.Time) (*entity.RiskAlert, *entity.RiskChange) {
	alertType := classifyTransition(prev, cur)

	alert := &entity.RiskAlert{
		StockID:           cur.StockID,
		AlertDate:         toDate,
		AlertType:         alertType,
		PreviousRiskLevel: prev.RiskLevel,
		NewRiskLevel:      cur.RiskLevel,
		PreviousScore:     prev.TotalScore,
		NewScore:          cur.TotalScore,
		Signals:           cur.Signals,
		Price:             cur.LastPrice,
	}
	if cur.Stock != nil {
		alert.Stock = cur.Stock
	}

	newSignals, removedSignals := diffSignalSummaries(prev.SignalSummary, cur.SignalSummary)

	change := &entity.RiskChange{
		Symbol:            symbolOf(cur),
		FromDate:          fromDate,
		ToDate:            toDate,
		PreviousRiskLevel: prev.RiskLevel,
		NewRiskLevel:      cur.RiskLevel,
		ScoreChange:       cur.TotalScore - prev.TotalScore,
		NewSignals:        newSignals,
		RemovedSignals:    removedSignals,
	}
	if prev.LastPrice != nil && cur.LastPrice != nil {
		change.PriceChange = utils.ToPointer(*cur.LastPrice - *prev.LastPrice)
		if *prev.LastPrice != 0 {
			change.PriceChangePct = utils.ToPointer((*cur.LastPrice - *prev.LastPrice) / *prev.LastPrice * 100)
		}
	}

	return alert, change
}

// classifyTransition applies the alert-type precedence: NEW_HIGH_RISK, then
// score direction, then the pump/dump signal-marker overrides.
func classifyTransition(prev, cur *entity.DailySnapshot) entity.AlertType {
	alertType := entity.AlertTypeRiskDecreased
	switch {
	case cur.RiskLevel == entity.RiskLevelHigh && prev.RiskLevel != entity.RiskLevelHigh:
		alertType = entity.AlertTypeNewHighRisk
	case cur.TotalScore > prev.TotalScore:
		alertType = entity.AlertTypeRiskIncreased
	}

	switch {
	case strings.Contains(cur.SignalSummary, entity.SignalSpikeThenDrop) &&
		!strings.Contains(prev.SignalSummary, entity.SignalSpikeThenDrop):
		alertType = entity.AlertTypeDumpDetected
	case strings.Contains(cur.SignalSummary, entity.SignalActiveSpike) &&
		!strings.Contains(prev.SignalSummary, entity.SignalActiveSpike):
		alertType = entity.AlertTypePumpDetected
	}

	return alertType
}

// diffSignalSummaries splits both summaries on ", ", drops empties and
// returns the set differences. Diffing as sets means a pure reordering
// reports no change.
func diffSignalSummaries(prev, cur string) (added, removed []string) {
	prevSet := summaryToSet(prev)
	curSet := summaryToSet(cur)

	for _, s := range splitSummary(cur) {
		if !prevSet[s] {
			added = append(added, s)
		}
	}
	for _, s := range splitSummary(prev) {
		if !curSet[s] {
			removed = append(removed, s)
		}
	}
	return added, removed
}

func splitSummary(summary string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(summary, ", ") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

func summaryToSet(summary string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range splitSummary(summary) {
		set[part] = true
	}
	return set
}

func symbolOf(snap *entity.DailySnapshot) string {
	if snap.Stock != nil {
		return snap.Stock.Symbol
	}
	return fmt.Sprintf("stock-%d", snap.StockID)
}

func formatAlertDigest(scanDate time.Time, alerts []entity.RiskAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Risk alerts for %s*\n", utils.FormatDate(scanDate))
	for _, a := range alerts {
		symbol := fmt.Sprintf("stock-%d", a.StockID)
		if a.Stock != nil {
			symbol = a.Stock.Symbol
		}
		fmt.Fprintf(&b, "%s: %s %s → %s (score %.1f → %.1f)\n",
			symbol, a.AlertType, a.PreviousRiskLevel, a.NewRiskLevel, a.PreviousScore, a.NewScore)
	}
	return b.String()
}
