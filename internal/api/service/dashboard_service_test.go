package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/logger"
)

type countingSummaryRepo struct {
	latest      *entity.ScanSummary
	latestCalls int
}

func (f *countingSummaryRepo) Upsert(_ context.Context, _ *entity.ScanSummary) error { return nil }

func (f *countingSummaryRepo) GetLatestScanDateBefore(_ context.Context, _ time.Time) (*time.Time, error) {
	return nil, nil
}

func (f *countingSummaryRepo) GetByDate(_ context.Context, _ time.Time) (*entity.ScanSummary, error) {
	return nil, nil
}

func (f *countingSummaryRepo) GetLatest(_ context.Context) (*entity.ScanSummary, error) {
	f.latestCalls++
	return f.latest, nil
}

func (f *countingSummaryRepo) Find(_ context.Context, _, _ *time.Time, _ int) ([]entity.ScanSummary, error) {
	return nil, nil
}

type countingWatchlistRepo struct {
	rows      []entity.PromotedStockWatchlist
	findCalls int
}

func (f *countingWatchlistRepo) GetBySymbolAndDate(_ context.Context, _ string, _ time.Time) (*entity.PromotedStockWatchlist, error) {
	return nil, nil
}

func (f *countingWatchlistRepo) Create(_ context.Context, _ *entity.PromotedStockWatchlist) error {
	return nil
}

func (f *countingWatchlistRepo) Save(_ context.Context, _ *entity.PromotedStockWatchlist) error {
	return nil
}

func (f *countingWatchlistRepo) Find(_ context.Context, _ dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error) {
	f.findCalls++
	return f.rows, nil
}

func newTestService(summaries *countingSummaryRepo, watchlist *countingWatchlistRepo) DashboardService {
	return NewDashboardService(nil, nil, nil, summaries, watchlist, nil, nil,
		time.Minute, 5*time.Minute, logger.NewNop())
}

func TestGetLatestSummaryIsCached(t *testing.T) {
	summaries := &countingSummaryRepo{latest: &entity.ScanSummary{TotalStocks: 120}}
	svc := newTestService(summaries, &countingWatchlistRepo{})

	first, err := svc.GetLatestSummary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.GetLatestSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, summaries.latestCalls)
}

func TestGetLatestSummaryNilIsNotCached(t *testing.T) {
	summaries := &countingSummaryRepo{}
	svc := newTestService(summaries, &countingWatchlistRepo{})

	for i := 0; i < 2; i++ {
		summary, err := svc.GetLatestSummary(context.Background())
		require.NoError(t, err)
		assert.Nil(t, summary)
	}
	assert.Equal(t, 2, summaries.latestCalls)
}

func TestGetWatchlistCachesOnlyUnfilteredQueries(t *testing.T) {
	watchlist := &countingWatchlistRepo{rows: []entity.PromotedStockWatchlist{{Symbol: "ABCD"}}}
	svc := newTestService(&countingSummaryRepo{}, watchlist)

	_, err := svc.GetWatchlist(context.Background(), dto.FindWatchlistParams{})
	require.NoError(t, err)
	_, err = svc.GetWatchlist(context.Background(), dto.FindWatchlistParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, watchlist.findCalls)

	filtered := dto.FindWatchlistParams{Outcome: string(entity.OutcomeDumped)}
	_, err = svc.GetWatchlist(context.Background(), filtered)
	require.NoError(t, err)
	_, err = svc.GetWatchlist(context.Background(), filtered)
	require.NoError(t, err)
	assert.Equal(t, 3, watchlist.findCalls)
}
