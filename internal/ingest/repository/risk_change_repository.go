package repository

import (
	"context"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RiskChangeRepository persists append-only historical transition deltas.
type RiskChangeRepository interface {
	// Create inserts a change record, ignoring conflicts on the
	// (symbol, from_date, to_date) key.
	Create(ctx context.Context, change *entity.RiskChange) (bool, error)
	Find(ctx context.Context, params dto.FindChangesParams) ([]entity.RiskChange, error)
}

// NewRiskChangeRepository creates a new RiskChangeRepository.
func NewRiskChangeRepository(db *gorm.DB) RiskChangeRepository {
	return &riskChangeRepository{db: db}
}

type riskChangeRepository struct {
	db *gorm.DB
}

func (r *riskChangeRepository) Create(ctx context.Context, change *entity.RiskChange) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "from_date"}, {Name: "to_date"}},
		DoNothing: true,
	}).Create(change)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *riskChangeRepository) Find(ctx context.Context, params dto.FindChangesParams) ([]entity.RiskChange, error) {
	q := r.db.WithContext(ctx).Model(&entity.RiskChange{})
	if params.Symbol != "" {
		q = q.Where("symbol = ?", params.Symbol)
	}
	if params.From != nil {
		q = q.Where("to_date >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("to_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var changes []entity.RiskChange
	if err := q.Order("to_date desc, id desc").Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
