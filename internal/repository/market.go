package repository

import (
	"errors"
	"time"

	"agri-advisor/internal/model"

	"gorm.io/gorm"
)

// PriceFilter narrows stored mandi price queries. Zero values mean no
// constraint.
type PriceFilter struct {
	CropID    uint
	MandiName string
	DateFrom  time.Time
	DateTo    time.Time
}

// MarketRepository serves stored mandi price history.
type MarketRepository interface {
	// BestStoredPrice returns the top historical record for a crop: most
	// recent date first, highest price as the tie-break. Nil when no history
	// exists.
	BestStoredPrice(cropID uint) (*model.MarketPrice, error)
	ListPrices(filter PriceFilter) ([]model.MarketPrice, error)
	CreatePrice(price *model.MarketPrice) error
}

// marketRepository implements MarketRepository
type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) BestStoredPrice(cropID uint) (*model.MarketPrice, error) {
	var price model.MarketPrice
	err := r.db.
		Where("crop_id = ?", cropID).
		Order("price_date DESC").
		Order("price DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *marketRepository) ListPrices(filter PriceFilter) ([]model.MarketPrice, error) {
	query := r.db.Model(&model.MarketPrice{}).Order("price_date DESC")
	if filter.CropID != 0 {
		query = query.Where("crop_id = ?", filter.CropID)
	}
	if filter.MandiName != "" {
		query = query.Where("mandi_name = ?", filter.MandiName)
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("price_date >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		query = query.Where("price_date <= ?", filter.DateTo)
	}

	var prices []model.MarketPrice
	err := query.Find(&prices).Error
	return prices, err
}

func (r *marketRepository) CreatePrice(price *model.MarketPrice) error {
	return r.db.Create(price).Error
}
