package service

import (
	"context"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	cacheKeyLatestSummary = "summary:latest"
	cacheKeyWatchlist     = "watchlist:all"
)

// DashboardService serves read-only queries over the pipeline tables. The
// ingestion pipeline owns every table; nothing here writes.
type DashboardService interface {
	GetAlerts(ctx context.Context, params dto.FindAlertsParams) ([]entity.RiskAlert, error)
	GetChanges(ctx context.Context, params dto.FindChangesParams) ([]entity.RiskChange, error)
	GetSnapshots(ctx context.Context, params dto.FindSnapshotsParams) ([]entity.DailySnapshot, error)
	GetSummaries(ctx context.Context, from, to *time.Time, limit int) ([]entity.ScanSummary, error)
	GetLatestSummary(ctx context.Context) (*entity.ScanSummary, error)
	GetWatchlist(ctx context.Context, params dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error)
	GetSocialScans(ctx context.Context, params dto.FindSocialScansParams) ([]entity.SocialMediaScan, error)
	GetStock(ctx context.Context, symbol string) (*entity.Stock, error)
}

// NewDashboardService creates a DashboardService with an in-process response
// cache for the hot aggregate queries.
func NewDashboardService(
	alertRepo repository.RiskAlertRepository,
	changeRepo repository.RiskChangeRepository,
	snapshotRepo repository.DailySnapshotRepository,
	summaryRepo repository.ScanSummaryRepository,
	watchlistRepo repository.PromotedStockRepository,
	socialRepo repository.SocialMediaScanRepository,
	stockRepo repository.StockRepository,
	cacheTTL, cacheCleanup time.Duration,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		alertRepo:     alertRepo,
		changeRepo:    changeRepo,
		snapshotRepo:  snapshotRepo,
		summaryRepo:   summaryRepo,
		watchlistRepo: watchlistRepo,
		socialRepo:    socialRepo,
		stockRepo:     stockRepo,
		cache:         cache.New(cacheTTL, cacheCleanup),
		logger:        log,
	}
}

type dashboardService struct {
	alertRepo     repository.RiskAlertRepository
	changeRepo    repository.RiskChangeRepository
	snapshotRepo  repository.DailySnapshotRepository
	summaryRepo   repository.ScanSummaryRepository
	watchlistRepo repository.PromotedStockRepository
	socialRepo    repository.SocialMediaScanRepository
	stockRepo     repository.StockRepository
	cache         *cache.Cache
	logger        *logger.Logger
}

func (s *dashboardService) GetAlerts(ctx context.Context, params dto.FindAlertsParams) ([]entity.RiskAlert, error) {
	return s.alertRepo.Find(ctx, params)
}

func (s *dashboardService) GetChanges(ctx context.Context, params dto.FindChangesParams) ([]entity.RiskChange, error) {
	return s.changeRepo.Find(ctx, params)
}

func (s *dashboardService) GetSnapshots(ctx context.Context, params dto.FindSnapshotsParams) ([]entity.DailySnapshot, error) {
	return s.snapshotRepo.Find(ctx, params)
}

func (s *dashboardService) GetSummaries(ctx context.Context, from, to *time.Time, limit int) ([]entity.ScanSummary, error) {
	return s.summaryRepo.Find(ctx, from, to, limit)
}

func (s *dashboardService) GetLatestSummary(ctx context.Context) (*entity.ScanSummary, error) {
	if cached, found := s.cache.Get(cacheKeyLatestSummary); found {
		return cached.(*entity.ScanSummary), nil
	}
	summary, err := s.summaryRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		s.cache.Set(cacheKeyLatestSummary, summary, cache.DefaultExpiration)
	}
	return summary, nil
}

func (s *dashboardService) GetWatchlist(ctx context.Context, params dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error) {
	unfiltered := params == (dto.FindWatchlistParams{})
	if unfiltered {
		if cached, found := s.cache.Get(cacheKeyWatchlist); found {
			return cached.([]entity.PromotedStockWatchlist), nil
		}
	}
	rows, err := s.watchlistRepo.Find(ctx, params)
	if err != nil {
		return nil, err
	}
	if unfiltered {
		s.cache.Set(cacheKeyWatchlist, rows, cache.DefaultExpiration)
	}
	return rows, nil
}

func (s *dashboardService) GetSocialScans(ctx context.Context, params dto.FindSocialScansParams) ([]entity.SocialMediaScan, error) {
	return s.socialRepo.Find(ctx, params)
}

func (s *dashboardService) GetStock(ctx context.Context, symbol string) (*entity.Stock, error) {
	return s.stockRepo.GetBySymbol(ctx, symbol)
}
