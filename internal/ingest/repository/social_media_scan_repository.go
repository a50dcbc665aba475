package repository

import (
	"context"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialMediaScanRepository persists promotion evidence per (stock, date).
type SocialMediaScanRepository interface {
	Upsert(ctx context.Context, scan *entity.SocialMediaScan) error
	Find(ctx context.Context, params dto.FindSocialScansParams) ([]entity.SocialMediaScan, error)
}

// NewSocialMediaScanRepository creates a new SocialMediaScanRepository.
func NewSocialMediaScanRepository(db *gorm.DB) SocialMediaScanRepository {
	return &socialMediaScanRepository{db: db}
}

type socialMediaScanRepository struct {
	db *gorm.DB
}

func (r *socialMediaScanRepository) Upsert(ctx context.Context, scan *entity.SocialMediaScan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "scan_date"}},
		UpdateAll: true,
	}).Create(scan).Error
}

func (r *socialMediaScanRepository) Find(ctx context.Context, params dto.FindSocialScansParams) ([]entity.SocialMediaScan, error) {
	q := r.db.WithContext(ctx).Preload("Stock").Model(&entity.SocialMediaScan{})
	if params.Symbol != "" {
		q = q.Joins("JOIN stocks ON stocks.id = social_media_scans.stock_id").
			Where("stocks.symbol = ?", params.Symbol)
	}
	if params.Platform != "" {
		q = q.Where("platform = ?", params.Platform)
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

	var scans []entity.SocialMediaScan
	if err := q.Order("scan_date desc, id desc").Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}
