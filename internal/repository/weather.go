package repository

import (
	"time"

	"agri-advisor/internal/model"

	"gorm.io/gorm"
)

// WeatherRepository serves stored daily observations, the fallback signal
// when the live feed is unavailable.
type WeatherRepository interface {
	// RecentForRegion returns up to limit observations for a region, most
	// recent forecast date first.
	RecentForRegion(region string, limit int) ([]model.WeatherData, error)
	ListForRegion(region string, from, to time.Time) ([]model.WeatherData, error)
	Create(obs *model.WeatherData) error
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	db *gorm.DB
}

// NewWeatherRepository creates a new weather repository
func NewWeatherRepository(db *gorm.DB) WeatherRepository {
	return &weatherRepository{db: db}
}

func (r *weatherRepository) RecentForRegion(region string, limit int) ([]model.WeatherData, error) {
	var rows []model.WeatherData
	err := r.db.
		Where("region = ?", region).
		Order("forecast_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *weatherRepository) ListForRegion(region string, from, to time.Time) ([]model.WeatherData, error) {
	query := r.db.Model(&model.WeatherData{}).Order("forecast_date ASC")
	if region != "" {
		query = query.Where("region = ?", region)
	}
	if !from.IsZero() {
		query = query.Where("forecast_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("forecast_date <= ?", to)
	}

	var rows []model.WeatherData
	err := query.Find(&rows).Error
	return rows, err
}

func (r *weatherRepository) Create(obs *model.WeatherData) error {
	return r.db.Create(obs).Error
}
