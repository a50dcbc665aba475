package repository

import (
	"context"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"

	"gorm.io/gorm"
)

// PromotedStockRepository tracks promoted tickers keyed on (symbol, added date).
type PromotedStockRepository interface {
	GetBySymbolAndDate(ctx context.Context, symbol string, addedDate time.Time) (*entity.PromotedStockWatchlist, error)
	Create(ctx context.Context, row *entity.PromotedStockWatchlist) error
	// Save persists a mutated existing row.
	Save(ctx context.Context, row *entity.PromotedStockWatchlist) error
	Find(ctx context.Context, params dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error)
}

// NewPromotedStockRepository creates a new PromotedStockRepository.
func NewPromotedStockRepository(db *gorm.DB) PromotedStockRepository {
	return &promotedStockRepository{db: db}
}

type promotedStockRepository struct {
	db *gorm.DB
}

func (r *promotedStockRepository) GetBySymbolAndDate(ctx context.Context, symbol string, addedDate time.Time) (*entity.PromotedStockWatchlist, error) {
	var row entity.PromotedStockWatchlist
	result := r.db.WithContext(ctx).
		Where("symbol = ? AND added_date = ?", symbol, addedDate).
		First(&row)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &row, nil
}

func (r *promotedStockRepository) Create(ctx context.Context, row *entity.PromotedStockWatchlist) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *promotedStockRepository) Save(ctx context.Context, row *entity.PromotedStockWatchlist) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *promotedStockRepository) Find(ctx context.Context, params dto.FindWatchlistParams) ([]entity.PromotedStockWatchlist, error) {
	q := r.db.WithContext(ctx).Model(&entity.PromotedStockWatchlist{})
	if params.Outcome != "" {
		q = q.Where("outcome = ?", params.Outcome)
	}
	if params.From != nil {
		q = q.Where("added_date >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("added_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var rows []entity.PromotedStockWatchlist
	if err := q.Order("added_date desc, symbol asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
