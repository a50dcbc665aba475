package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/internal/ingest/reader"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/common"
	"scamdunk-ingest/pkg/logger"
	redisPkg "scamdunk-ingest/pkg/redis"
	"scamdunk-ingest/pkg/utils"

	"gorm.io/datatypes"
)

// DailyIngestionOptions controls one ingestion run.
type DailyIngestionOptions struct {
	// Date is an explicit YYYY-MM-DD scan date. Empty means latest available.
	Date string
	// File is an explicit evaluation results path; it wins over Date.
	File string
	// DryRun performs all reads and classification but skips every write.
	DryRun bool
}

// DailyIngestionReport is the human-readable outcome of one run. Per-record
// errors are tallied here and do not fail the run.
type DailyIngestionReport struct {
	ScanDate         time.Time
	SourceFile       string
	DryRun           bool
	TotalRecords     int
	Processed        int
	StocksCreated    int
	SnapshotsCreated int
	SnapshotsUpdated int
	Skipped          int
	Errors           int
	RiskDistribution map[entity.RiskLevel]int
	Detection        *DetectionReport
	Duration         time.Duration
}

// String renders the report for CLI output.
func (r *DailyIngestionReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scan date:          %s\n", utils.FormatDate(r.ScanDate))
	fmt.Fprintf(&b, "Source file:        %s\n", r.SourceFile)
	if r.DryRun {
		fmt.Fprintf(&b, "Mode:               dry run (no writes)\n")
	}
	fmt.Fprintf(&b, "Records:            %d total, %d processed, %d skipped, %d errors\n",
		r.TotalRecords, r.Processed, r.Skipped, r.Errors)
	fmt.Fprintf(&b, "Stocks created:     %d\n", r.StocksCreated)
	fmt.Fprintf(&b, "Snapshots:          %d created, %d updated\n", r.SnapshotsCreated, r.SnapshotsUpdated)
	fmt.Fprintf(&b, "Risk distribution:  LOW=%d MEDIUM=%d HIGH=%d INSUFFICIENT=%d\n",
		r.RiskDistribution[entity.RiskLevelLow], r.RiskDistribution[entity.RiskLevelMedium],
		r.RiskDistribution[entity.RiskLevelHigh], r.RiskDistribution[entity.RiskLevelInsufficient])
	if r.Detection != nil {
		fmt.Fprintf(&b, "Risk transitions:   %d detected, %d alerts written, %d errors\n",
			r.Detection.Transitions, r.Detection.AlertsCreated, r.Detection.Errors)
	}
	fmt.Fprintf(&b, "Duration:           %s\n", r.Duration.Round(time.Millisecond))
	return b.String()
}

// DailyIngestionService consumes a daily evaluation batch, upserting stocks
// and snapshots, aggregating the scan summary and running change detection.
type DailyIngestionService interface {
	Run(ctx context.Context, opts DailyIngestionOptions) (*DailyIngestionReport, error)
}

// NewDailyIngestionService creates a DailyIngestionService. The redis client
// may be nil, in which case no per-date run lock is taken.
func NewDailyIngestionService(
	evalReader *reader.EvaluationReader,
	stockRepo repository.StockRepository,
	snapshotRepo repository.DailySnapshotRepository,
	summaryRepo repository.ScanSummaryRepository,
	detector RiskChangeDetector,
	redisClient *redisPkg.Client,
	log *logger.Logger,
) DailyIngestionService {
	return &dailyIngestionService{
		reader:       evalReader,
		stockRepo:    stockRepo,
		snapshotRepo: snapshotRepo,
		summaryRepo:  summaryRepo,
		detector:     detector,
		redisClient:  redisClient,
		logger:       log,
	}
}

type dailyIngestionService struct {
	reader       *reader.EvaluationReader
	stockRepo    repository.StockRepository
	snapshotRepo repository.DailySnapshotRepository
	summaryRepo  repository.ScanSummaryRepository
	detector     RiskChangeDetector
	redisClient  *redisPkg.Client
	logger       *logger.Logger
}

func (s *dailyIngestionService) Run(ctx context.Context, opts DailyIngestionOptions) (*DailyIngestionReport, error) {
	start := time.Now()

	resultPath, summaryPath, err := s.reader.Resolve(opts.Date, opts.File)
	if err != nil {
		return nil, err
	}

	results, summary, err := s.reader.Load(resultPath, summaryPath)
	if err != nil {
		return nil, err
	}

	scanDate, err := s.resolveScanDate(opts.Date, resultPath)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil && !opts.DryRun {
		lockKey := fmt.Sprintf(common.RedisKeyIngestLock, utils.FormatDate(scanDate))
		acquired, err := s.redisClient.AcquireLock(ctx, lockKey, common.IngestLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire ingest lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("ingestion for %s is already running", utils.FormatDate(scanDate))
		}
		defer func() {
			if err := s.redisClient.ReleaseLock(context.Background(), lockKey); err != nil {
				s.logger.Warn("Failed to release ingest lock", logger.ErrorField(err))
			}
		}()
	}

	report := &DailyIngestionReport{
		ScanDate:         scanDate,
		SourceFile:       resultPath,
		DryRun:           opts.DryRun,
		TotalRecords:     len(results),
		RiskDistribution: make(map[entity.RiskLevel]int),
	}

	s.logger.InfoContext(ctx, "Starting daily ingestion",
		logger.StringField("scan_date", utils.FormatDate(scanDate)),
		logger.StringField("file", resultPath),
		logger.IntField("records", len(results)),
		logger.Field("dry_run", opts.DryRun))

	for i, rec := range results {
		if i > 0 && i%common.IngestBatchSize == 0 {
			s.logger.InfoContext(ctx, "Ingestion progress",
				logger.IntField("done", i), logger.IntField("total", len(results)))
		}
		s.ingestRecord(ctx, rec, scanDate, opts.DryRun, report)
	}

	if summary != nil {
		if err := s.upsertScanSummary(ctx, scanDate, results, summary, opts.DryRun); err != nil {
			// Summary write failures are not isolated; they fail the run.
			return nil, fmt.Errorf("upsert scan summary: %w", err)
		}
	}

	detection, err := s.detector.Detect(ctx, scanDate, opts.DryRun)
	if err != nil {
		return nil, fmt.Errorf("risk change detection: %w", err)
	}
	report.Detection = detection
	report.Duration = time.Since(start)

	s.logger.InfoContext(ctx, "Daily ingestion finished",
		logger.StringField("scan_date", utils.FormatDate(scanDate)),
		logger.IntField("processed", report.Processed),
		logger.IntField("skipped", report.Skipped),
		logger.IntField("errors", report.Errors))

	return report, nil
}

// ingestRecord upserts one evaluation record. Failures are logged and
// counted; one bad record does not abort the batch.
func (s *dailyIngestionService) ingestRecord(ctx context.Context, rec dto.EvaluationResult, scanDate time.Time, dryRun bool, report *DailyIngestionReport) {
	if rec.Symbol == "" {
		s.logger.Warn("Skipping record without symbol", logger.StringField("name", rec.Name))
		report.Skipped++
		return
	}

	level := entity.RiskLevel(rec.RiskLevel)
	report.RiskDistribution[level]++
	report.Processed++

	if dryRun {
		return
	}

	stock, created, err := s.stockRepo.Upsert(ctx, repository.StockUpsertInput{
		Symbol:   rec.Symbol,
		Name:     rec.Name,
		Exchange: rec.Exchange,
		Sector:   rec.Sector,
		Industry: rec.Industry,
	})
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to upsert stock",
			logger.ErrorField(err), logger.StringField("symbol", rec.Symbol))
		return
	}
	if created {
		report.StocksCreated++
	}

	snapshot := &entity.DailySnapshot{
		StockID:         stock.ID,
		ScanDate:        scanDate,
		RiskLevel:       level,
		TotalScore:      rec.TotalScore,
		IsLegitimate:    rec.IsLegitimate,
		IsInsufficient:  rec.IsInsufficient,
		LastPrice:       rec.LastPrice,
		MarketCap:       rec.MarketCap,
		Signals:         rec.Signals,
		SignalSummary:   rec.SignalSummary,
		SignalCount:     len(rec.Signals),
		PriceDataSource: rec.PriceDataSource,
		EvaluatedAt:     rec.EvaluatedAt,
	}
	snapCreated, err := s.snapshotRepo.Upsert(ctx, snapshot)
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to upsert snapshot",
			logger.ErrorField(err), logger.StringField("symbol", rec.Symbol))
		return
	}
	if snapCreated {
		report.SnapshotsCreated++
	} else {
		report.SnapshotsUpdated++
	}
}

// upsertScanSummary derives pattern counts and the per-sector breakdown from
// the full result batch and merges them with the supplied aggregate fields.
func (s *dailyIngestionService) upsertScanSummary(ctx context.Context, scanDate time.Time, results []dto.EvaluationResult, summary *dto.EvaluationSummary, dryRun bool) error {
	row := &entity.ScanSummary{
		ScanDate:          scanDate,
		TotalStocks:       summary.TotalStocks,
		EvaluatedStocks:   summary.EvaluatedStocks,
		SkippedStocks:     summary.SkippedStocks,
		LowRiskCount:      summary.LowRiskCount,
		MediumRiskCount:   summary.MediumRiskCount,
		HighRiskCount:     summary.HighRiskCount,
		InsufficientCount: summary.InsufficientCount,
		ScanStartedAt:     summary.ScanStartedAt,
		ScanFinishedAt:    summary.ScanFinishedAt,
		DurationSecs:      summary.DurationSecs,
		APICallCount:      summary.APICallCount,
	}

	for _, rec := range results {
		if strings.Contains(rec.SignalSummary, entity.SignalSpikeThenDrop) {
			row.SpikeThenDropCount++
		}
		if strings.Contains(rec.SignalSummary, entity.SignalActiveSpike) &&
			!strings.Contains(rec.SignalSummary, entity.SignalSpikeThenDrop) {
			row.ActiveSpikeCount++
		}
		if strings.Contains(rec.SignalSummary, entity.SignalVolumeExplosion) {
			row.VolumeExplosionCount++
		}
		if strings.Contains(rec.SignalSummary, entity.SignalOverbought) {
			row.OverboughtCount++
		}
	}

	sectorBreakdown := buildSectorBreakdown(results)
	sectorJSON, err := json.Marshal(sectorBreakdown)
	if err != nil {
		return fmt.Errorf("marshal sector breakdown: %w", err)
	}
	row.SectorBreakdown = datatypes.JSON(sectorJSON)

	if summary.ExchangeBreakdown != nil {
		exchangeJSON, err := json.Marshal(summary.ExchangeBreakdown)
		if err != nil {
			return fmt.Errorf("marshal exchange breakdown: %w", err)
		}
		row.ExchangeBreakdown = datatypes.JSON(exchangeJSON)
	}

	if dryRun {
		return nil
	}
	return s.summaryRepo.Upsert(ctx, row)
}

// buildSectorBreakdown groups risk-level counts by sector, bucketing a
// missing sector under "Unknown".
func buildSectorBreakdown(results []dto.EvaluationResult) map[string]map[string]int {
	breakdown := make(map[string]map[string]int)
	for _, rec := range results {
		sector := "Unknown"
		if rec.Sector != nil && *rec.Sector != "" {
			sector = *rec.Sector
		}
		if breakdown[sector] == nil {
			breakdown[sector] = make(map[string]int)
		}
		breakdown[sector][rec.RiskLevel]++
	}
	return breakdown
}

func (s *dailyIngestionService) resolveScanDate(date, resultPath string) (time.Time, error) {
	if date != "" {
		d, err := utils.ParseDate(date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
		}
		return d, nil
	}
	if d, ok := reader.DateFromFilename(filepath.Base(resultPath)); ok {
		return d, nil
	}
	return utils.TodayUTC(), nil
}
