package repository

import (
	"context"
	"time"

	"scamdunk-ingest/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanSummaryRepository persists one aggregate row per scan date.
type ScanSummaryRepository interface {
	Upsert(ctx context.Context, summary *entity.ScanSummary) error
	// GetLatestScanDateBefore returns the most recent scan date strictly
	// earlier than the given date, or nil when no earlier scan exists.
	GetLatestScanDateBefore(ctx context.Context, date time.Time) (*time.Time, error)
	GetByDate(ctx context.Context, date time.Time) (*entity.ScanSummary, error)
	GetLatest(ctx context.Context) (*entity.ScanSummary, error)
	Find(ctx context.Context, from, to *time.Time, limit int) ([]entity.ScanSummary, error)
}

// NewScanSummaryRepository creates a new ScanSummaryRepository.
func NewScanSummaryRepository(db *gorm.DB) ScanSummaryRepository {
	return &scanSummaryRepository{db: db}
}

type scanSummaryRepository struct {
	db *gorm.DB
}

func (r *scanSummaryRepository) Upsert(ctx context.Context, summary *entity.ScanSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scan_date"}},
		UpdateAll: true,
	}).Create(summary).Error
}

func (r *scanSummaryRepository) GetLatestScanDateBefore(ctx context.Context, date time.Time) (*time.Time, error) {
	var summary entity.ScanSummary
	result := r.db.WithContext(ctx).
		Where("scan_date < ?", date).
		Order("scan_date desc").
		First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary.ScanDate, nil
}

func (r *scanSummaryRepository) GetByDate(ctx context.Context, date time.Time) (*entity.ScanSummary, error) {
	var summary entity.ScanSummary
	result := r.db.WithContext(ctx).Where("scan_date = ?", date).First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary, nil
}

func (r *scanSummaryRepository) GetLatest(ctx context.Context) (*entity.ScanSummary, error) {
	var summary entity.ScanSummary
	result := r.db.WithContext(ctx).Order("scan_date desc").First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary, nil
}

func (r *scanSummaryRepository) Find(ctx context.Context, from, to *time.Time, limit int) ([]entity.ScanSummary, error) {
	q := r.db.WithContext(ctx).Model(&entity.ScanSummary{})
	if from != nil {
		q = q.Where("scan_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("scan_date <= ?", *to)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var summaries []entity.ScanSummary
	if err := q.Order("scan_date desc").Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
