package repository

import (
	"context"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailySnapshotRepository persists one risk snapshot per (stock, date).
type DailySnapshotRepository interface {
	// Upsert writes a snapshot with full replace-on-conflict semantics keyed
	// on (stock_id, scan_date). The return reports whether a new row was
	// created rather than an existing one overwritten.
	Upsert(ctx context.Context, snapshot *entity.DailySnapshot) (bool, error)
	GetByScanDate(ctx context.Context, scanDate time.Time) ([]entity.DailySnapshot, error)
	Find(ctx context.Context, params dto.FindSnapshotsParams) ([]entity.DailySnapshot, error)
}

// NewDailySnapshotRepository creates a new DailySnapshotRepository.
func NewDailySnapshotRepository(db *gorm.DB) DailySnapshotRepository {
	return &dailySnapshotRepository{db: db}
}

type dailySnapshotRepository struct {
	db *gorm.DB
}

func (r *dailySnapshotRepository) Upsert(ctx context.Context, snapshot *entity.DailySnapshot) (bool, error) {
	var existing int64
	err := r.db.WithContext(ctx).Model(&entity.DailySnapshot{}).
		Where("stock_id = ? AND scan_date = ?", snapshot.StockID, snapshot.ScanDate).
		Count(&existing).Error
	if err != nil {
		return false, err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "scan_date"}},
		UpdateAll: true,
	}).Create(snapshot).Error
	if err != nil {
		return false, err
	}
	return existing == 0, nil
}

func (r *dailySnapshotRepository) GetByScanDate(ctx context.Context, scanDate time.Time) ([]entity.DailySnapshot, error) {
	var snapshots []entity.DailySnapshot
	err := r.db.WithContext(ctx).Preload("Stock").
		Where("scan_date = ?", scanDate).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *dailySnapshotRepository) Find(ctx context.Context, params dto.FindSnapshotsParams) ([]entity.DailySnapshot, error) {
	q := r.db.WithContext(ctx).Preload("Stock").Model(&entity.DailySnapshot{})
	if params.Symbol != "" {
		q = q.Joins("JOIN stocks ON stocks.id = daily_snapshots.stock_id").
			Where("stocks.symbol = ?", params.Symbol)
	}
	if params.RiskLevel != "" {
		q = q.Where("risk_level = ?", params.RiskLevel)
	}
	if params.From != nil {
		q = q.Where("scan_date >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("scan_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var snapshots []entity.DailySnapshot
	if err := q.Order("scan_date desc").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
