package repository

import (
	"context"

	"scamdunk-ingest/internal/entity"

	"gorm.io/gorm"
)

// StockUpsertInput carries the descriptive fields of a scanned symbol.
type StockUpsertInput struct {
	Symbol   string
	Name     string
	Exchange string
	Sector   *string
	Industry *string
}

// StockRepository is the only write path that can introduce a new Stock row.
type StockRepository interface {
	// Upsert returns the stable stock identity for a symbol, creating it on
	// first sighting. The second return reports whether a row was created.
	Upsert(ctx context.Context, input StockUpsertInput) (*entity.Stock, bool, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Find(ctx context.Context, symbols []string) ([]entity.Stock, error)
}

// NewStockRepository creates a new StockRepository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

func (r *stockRepository) Upsert(ctx context.Context, input StockUpsertInput) (*entity.Stock, bool, error) {
	var stock entity.Stock
	result := r.db.WithContext(ctx).Where("symbol = ?", input.Symbol).First(&stock)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return nil, false, result.Error
		}
		stock = entity.Stock{
			Symbol:   input.Symbol,
			Name:     input.Name,
			Exchange: input.Exchange,
			Sector:   input.Sector,
			Industry: input.Industry,
			IsOTC:    input.Exchange == "OTC",
		}
		if err := r.db.WithContext(ctx).Create(&stock).Error; err != nil {
			return nil, false, err
		}
		return &stock, true, nil
	}

	// Only descriptive fields are refreshed here; score and price data never
	// touch this entity.
	updates := map[string]interface{}{}
	if input.Name != "" && input.Name != stock.Name {
		updates["name"] = input.Name
	}
	if !equalStringPtr(input.Sector, stock.Sector) {
		updates["sector"] = input.Sector
	}
	if !equalStringPtr(input.Industry, stock.Industry) {
		updates["industry"] = input.Industry
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&stock).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		if name, ok := updates["name"].(string); ok {
			stock.Name = name
		}
		stock.Sector = input.Sector
		stock.Industry = input.Industry
	}

	return &stock, false, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	result := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &stock, nil
}

func (r *stockRepository) Find(ctx context.Context, symbols []string) ([]entity.Stock, error) {
	var stocks []entity.Stock
	q := r.db.WithContext(ctx)
	if len(symbols) > 0 {
		q = q.Where("symbol IN ?", symbols)
	}
	if err := q.Order("symbol asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
