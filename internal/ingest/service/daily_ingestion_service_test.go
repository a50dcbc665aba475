package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/internal/ingest/reader"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"
)

type dailyFixture struct {
	dir       string
	stocks    *fakeStockRepo
	snapshots *fakeSnapshotRepo
	summaries *fakeSummaryRepo
	detector  *fakeDetector
	service   DailyIngestionService
}

func newDailyFixture(t *testing.T) *dailyFixture {
	t.Helper()
	f := &dailyFixture{
		dir:       t.TempDir(),
		stocks:    newFakeStockRepo(),
		snapshots: newFakeSnapshotRepo(),
		summaries: &fakeSummaryRepo{},
		detector:  &fakeDetector{},
	}
	evalReader := reader.NewEvaluationReader(f.dir, logger.NewNop())
	f.service = NewDailyIngestionService(evalReader, f.stocks, f.snapshots, f.summaries, f.detector, nil, logger.NewNop())
	return f
}

func (f *dailyFixture) writeResults(t *testing.T, date string, results []dto.EvaluationResult) {
	t.Helper()
	raw, err := json.Marshal(results)
	require.NoError(t, err)
	path := filepath.Join(f.dir, "daily-evaluation-"+date+".json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func (f *dailyFixture) writeSummary(t *testing.T, date string, summary dto.EvaluationSummary) {
	t.Helper()
	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	path := filepath.Join(f.dir, "daily-summary-"+date+".json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func evalRecord(symbol string, level string, score float64) dto.EvaluationResult {
	return dto.EvaluationResult{
		Symbol:      symbol,
		Name:        symbol + " Inc",
		Exchange:    "OTC",
		RiskLevel:   level,
		TotalScore:  score,
		EvaluatedAt: time.Now().UTC(),
	}
}

func TestDailyIngestionRun(t *testing.T) {
	f := newDailyFixture(t)

	withSector := evalRecord("BBBB", "MEDIUM", 4)
	withSector.Sector = utils.ToPointer("Healthcare")
	withSector.SignalSummary = "SPIKE_7D (+3), VOLUME_EXPLOSION (+2)"

	f.writeResults(t, "2026-08-22", []dto.EvaluationResult{
		evalRecord("AAAA", "HIGH", 9),
		withSector,
		{Name: "No Symbol Corp", RiskLevel: "LOW"},
	})
	f.writeSummary(t, "2026-08-22", dto.EvaluationSummary{
		TotalStocks:     3,
		EvaluatedStocks: 2,
		HighRiskCount:   1,
		MediumRiskCount: 1,
	})

	report, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22"})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-22", utils.FormatDate(report.ScanDate))
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Errors)
	assert.Equal(t, 2, report.StocksCreated)
	assert.Equal(t, 2, report.SnapshotsCreated)
	assert.Zero(t, report.SnapshotsUpdated)
	assert.Equal(t, 1, report.RiskDistribution[entity.RiskLevelHigh])
	assert.Equal(t, 1, report.RiskDistribution[entity.RiskLevelMedium])

	require.Len(t, f.snapshots.upserts, 2)
	assert.Equal(t, entity.RiskLevelHigh, f.snapshots.upserts[0].RiskLevel)

	require.Len(t, f.summaries.upserted, 1)
	row := f.summaries.upserted[0]
	assert.Equal(t, 3, row.TotalStocks)
	assert.Equal(t, 1, row.ActiveSpikeCount)
	assert.Equal(t, 1, row.VolumeExplosionCount)
	assert.Zero(t, row.SpikeThenDropCount)

	var sectors map[string]map[string]int
	require.NoError(t, json.Unmarshal(row.SectorBreakdown, &sectors))
	assert.Equal(t, 1, sectors["Healthcare"]["MEDIUM"])
	assert.Equal(t, 2, sectors["Unknown"]["HIGH"]+sectors["Unknown"]["LOW"])

	assert.Equal(t, 1, f.detector.calls)
	assert.False(t, f.detector.dryRun)
	require.NotNil(t, report.Detection)
}

func TestDailyIngestionSameDayRerunUpdates(t *testing.T) {
	f := newDailyFixture(t)
	f.writeResults(t, "2026-08-22", []dto.EvaluationResult{evalRecord("AAAA", "HIGH", 9)})

	_, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22"})
	require.NoError(t, err)

	report, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22"})
	require.NoError(t, err)

	assert.Zero(t, report.StocksCreated)
	assert.Zero(t, report.SnapshotsCreated)
	assert.Equal(t, 1, report.SnapshotsUpdated)
}

func TestDailyIngestionDryRun(t *testing.T) {
	f := newDailyFixture(t)
	f.writeResults(t, "2026-08-22", []dto.EvaluationResult{
		evalRecord("AAAA", "HIGH", 9),
		evalRecord("BBBB", "LOW", 1),
	})
	f.writeSummary(t, "2026-08-22", dto.EvaluationSummary{TotalStocks: 2})

	report, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22", DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.RiskDistribution[entity.RiskLevelHigh])
	assert.Equal(t, 1, report.RiskDistribution[entity.RiskLevelLow])

	assert.Zero(t, f.stocks.upserts)
	assert.Empty(t, f.snapshots.upserts)
	assert.Empty(t, f.summaries.upserted)
	assert.True(t, f.detector.dryRun)
}

func TestDailyIngestionScanDateFromFilename(t *testing.T) {
	f := newDailyFixture(t)
	f.writeResults(t, "2026-08-20", []dto.EvaluationResult{evalRecord("AAAA", "LOW", 1)})

	report, err := f.service.Run(context.Background(), DailyIngestionOptions{})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-20", utils.FormatDate(report.ScanDate))
	require.Len(t, f.snapshots.upserts, 1)
	assert.Equal(t, "2026-08-20", utils.FormatDate(f.snapshots.upserts[0].ScanDate))
}

func TestDailyIngestionIsolatesRecordFailures(t *testing.T) {
	f := newDailyFixture(t)
	f.stocks.failSymbol = "BADW"
	f.writeResults(t, "2026-08-22", []dto.EvaluationResult{
		evalRecord("BADW", "HIGH", 9),
		evalRecord("GOOD", "LOW", 1),
	})

	report, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, report.StocksCreated)
	require.Len(t, f.snapshots.upserts, 1)
}

func TestDailyIngestionMissingFile(t *testing.T) {
	f := newDailyFixture(t)

	_, err := f.service.Run(context.Background(), DailyIngestionOptions{Date: "2026-08-22"})
	assert.ErrorIs(t, err, reader.ErrNoEvaluationFile)
}
