package repository

import (
	"context"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RiskAlertRepository persists append-only risk transition events.
type RiskAlertRepository interface {
	// Create inserts an alert, ignoring conflicts on the
	// (stock_id, alert_date, alert_type) key so re-detection converges. The
	// return reports whether a row was actually inserted.
	Create(ctx context.Context, alert *entity.RiskAlert) (bool, error)
	Find(ctx context.Context, params dto.FindAlertsParams) ([]entity.RiskAlert, error)
}

// NewRiskAlertRepository creates a new RiskAlertRepository.
func NewRiskAlertRepository(db *gorm.DB) RiskAlertRepository {
	return &riskAlertRepository{db: db}
}

type riskAlertRepository struct {
	db *gorm.DB
}

func (r *riskAlertRepository) Create(ctx context.Context, alert *entity.RiskAlert) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "alert_date"}, {Name: "alert_type"}},
		DoNothing: true,
	}).Create(alert)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *riskAlertRepository) Find(ctx context.Context, params dto.FindAlertsParams) ([]entity.RiskAlert, error) {
	q := r.db.WithContext(ctx).Preload("Stock").Model(&entity.RiskAlert{})
	if params.Symbol != "" {
		q = q.Joins("JOIN stocks ON stocks.id = risk_alerts.stock_id").
			Where("stocks.symbol = ?", params.Symbol)
	}
	if params.AlertType != "" {
		q = q.Where("alert_type = ?", params.AlertType)
	}
	if params.RiskLevel != "" {
		q = q.Where("new_risk_level = ?", params.RiskLevel)
	}
	if params.From != nil {
		q = q.Where("alert_date >= ?", *params.From)
	}
	if params.To != nil {
		q = q.Where("alert_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var alerts []entity.RiskAlert
	if err := q.Order("alert_date desc, id desc").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}
