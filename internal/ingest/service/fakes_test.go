package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/utils"
)

var errFakeWrite = errors.New("fake write failure")

type fakeStockRepo struct {
	stocks     map[string]*entity.Stock
	nextID     uint
	failSymbol string
	upserts    int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[string]*entity.Stock)}
}

func (f *fakeStockRepo) Upsert(_ context.Context, input repository.StockUpsertInput) (*entity.Stock, bool, error) {
	if input.Symbol == f.failSymbol {
		return nil, false, errFakeWrite
	}
	f.upserts++
	if existing, ok := f.stocks[input.Symbol]; ok {
		return existing, false, nil
	}
	f.nextID++
	stock := &entity.Stock{
		ID:       f.nextID,
		Symbol:   input.Symbol,
		Name:     input.Name,
		Exchange: input.Exchange,
		Sector:   input.Sector,
		Industry: input.Industry,
		IsOTC:    input.Exchange == "OTC",
	}
	f.stocks[input.Symbol] = stock
	return stock, true, nil
}

func (f *fakeStockRepo) GetBySymbol(_ context.Context, symbol string) (*entity.Stock, error) {
	return f.stocks[symbol], nil
}

func (f *fakeStockRepo) Find(_ context.Context, _ []string) ([]entity.Stock, error) {
	return nil, nil
}

type fakeSnapshotRepo struct {
	byDate      map[string][]entity.DailySnapshot
	existing    map[string]bool
	upserts     []entity.DailySnapshot
	failStockID uint
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		byDate:   make(map[string][]entity.DailySnapshot),
		existing: make(map[string]bool),
	}
}

func (f *fakeSnapshotRepo) addSnapshot(snap entity.DailySnapshot) {
	key := utils.FormatDate(snap.ScanDate)
	f.byDate[key] = append(f.byDate[key], snap)
	f.existing[snapshotKey(snap.StockID, snap.ScanDate)] = true
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, snap *entity.DailySnapshot) (bool, error) {
	if f.failStockID != 0 && snap.StockID == f.failStockID {
		return false, errFakeWrite
	}
	f.upserts = append(f.upserts, *snap)
	key := snapshotKey(snap.StockID, snap.ScanDate)
	created := !f.existing[key]
	f.existing[key] = true
	return created, nil
}

func (f *fakeSnapshotRepo) GetByScanDate(_ context.Context, scanDate time.Time) ([]entity.DailySnapshot, error) {
	return f.byDate[utils.FormatDate(scanDate)], nil
}

func (f *fakeSnapshotRepo) Find(_ context.Context, _ dto.FindSnapshotsParams) ([]entity.DailySnapshot, error) {
	return nil, nil
}

func snapshotKey(stockID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", stockID, utils.FormatDate(date))
}

type fakeSummaryRepo struct {
	prevDate *time.Time
	upserted []entity.ScanSummary
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, summary *entity.ScanSummary) error {
	f.upserted = append(f.upserted, *summary)
	return nil
}

func (f *fakeSummaryRepo) GetLatestScanDateBefore(_ context.Context, _ time.Time) (*time.Time, error) {
	return f.prevDate, nil
}

func (f *fakeSummaryRepo) GetByDate(_ context.Context, _ time.Time) (*entity.ScanSummary, error) {
	return nil, nil
}

func (f *fakeSummaryRepo) GetLatest(_ context.Context) (*entity.ScanSummary, error) {
	return nil, nil
}

func (f *fakeSummaryRepo) Find(_ context.Context, _, _ *time.Time, _ int) ([]entity.ScanSummary, error) {
	return nil, nil
}

type fakeAlertRepo struct {
	alerts      []entity.RiskAlert
	failStockID uint
}

func (f *fakeAlertRepo) Create(_ context.Context, alert *entity.RiskAlert) (bool, error) {
	if f.failStockID != 0 && alert.StockID == f.failStockID {
		return false, errFakeWrite
	}
	f.alerts = append(f.alerts, *alert)
	return true, nil
}

func (f *fakeAlertRepo) Find(_ context.Context, _ dto.FindAlertsParams) ([]entity.RiskAlert, error) {
	return nil, nil
}

type fakeChangeRepo struct {
	changes []entity.RiskChange
}

func (f *fakeChangeRepo) Create(_ context.Context, change *entity.RiskChange) (bool, error) {
	f.changes = append(f.changes, *change)
	return true, nil
}

func (f *fakeChangeRepo) Find(_ context.Context, _ dto.FindChangesParams) ([]entity.RiskChange, error) {
	return nil, nil
}

type fakeDetector struct {
	report *DetectionReport
	calls  int
	dryRun bool
}

func (f *fakeDetector) Detect(_ context.Context, scanDate time.Time, dryRun bool) (*DetectionReport, error) {
	f.calls++
	f.dryRun = dryRun
	if f.report != nil {
		return f.report, nil
	}
	return &DetectionReport{ScanDate: scanDate}, nil
}

type fakeSocialRepo struct {
	scans []entity.SocialMediaScan
}

func (f *fakeSocialRepo) Upsert(_ context.Context, scan *entity.SocialMediaScan) error {
	f.scans = append(f.scans, *scan)
	return nil
}

func (f *fakeSocialRepo) Find(_ context.Context, _ dto.FindSocialScansParams) ([]entity.SocialMediaScan, error) {
	return nil, nil
}

type fakeWatchlistRepo struct {
	rows map[string]*entity.PromotedStockWatchlist

	created int
	saved   int
}

func newFakeWatchlistRepo() *fakeWatchlistRepo {
	return &fakeWatchlistRepo{rows: make(map[string]*entity.PromotedStockWatchlist)}
}

func watchlistKey(symbol string, date time.Time) string {
	return symbol + ":" + utils.FormatDate(date)
}

func (f *fakeWatchlistRepo) GetBySymbolAndDate(_ context.Context, symbol string, addedDate time.Time) (*entity.PromotedStockWatchlist, error) {
	return f.rows[watchlistKey(symbol, addedDate)], nil
}

func (f *fakeWatchlistRepo) Create(_ context.Context, row *entity.PromotedStockWatchlist) error {
	copied := *row
	f.rows[watchlistKey(row.Symbol, row.AddedDate)] = &copied
	f.created++
	return nil
}

func (f *fakeWatchlistRepo) Save(_ context.Context, row *entity.PromotedStockWatchlist) error {
	copied := *row
	f.rows[watchlistKey(row.Symbol, row.AddedDate)] = &copied
	f.saved++
	return nil
}

func (f *fakeWatchlistRepo) Find(_ context.Context, _ dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error) {
	return nil, nil
}
