package service

import (
	"context"
	"fmt"
	"time"

	"agri-advisor/internal/gateway"
	"agri-advisor/internal/model"
	"agri-advisor/internal/repository"
)

// MarketQuery narrows a price listing. Live queries hit the external feed;
// stored queries read persisted history.
type MarketQuery struct {
	Live      bool
	CropID    uint
	CropName  string
	State     string
	MandiName string
	DateFrom  time.Time
	DateTo    time.Time
}

// WeatherQuery narrows a weather listing. Region is required for live
// queries since the provider resolves forecasts by location.
type WeatherQuery struct {
	Live   bool
	Region string
	From   time.Time
	To     time.Time
}

// FeedService serves market price and weather listings from either the
// stored history or the live external feeds.
type FeedService interface {
	MarketPrices(ctx context.Context, q MarketQuery) ([]model.MarketPrice, error)
	RecordPrice(price *model.MarketPrice) error

	Weather(ctx context.Context, q WeatherQuery) ([]model.WeatherData, error)
	RecordWeather(obs *model.WeatherData) error
}

// feedService implements FeedService
type feedService struct {
	refRepo     repository.ReferenceRepository
	marketRepo  repository.MarketRepository
	weatherRepo repository.WeatherRepository
	market      MarketSource
	weather     WeatherSource
}

// NewFeedService creates a new feed service
func NewFeedService(
	refRepo repository.ReferenceRepository,
	marketRepo repository.MarketRepository,
	weatherRepo repository.WeatherRepository,
	marketSrc MarketSource,
	weatherSrc WeatherSource,
) FeedService {
	return &feedService{
		refRepo:     refRepo,
		marketRepo:  marketRepo,
		weatherRepo: weatherRepo,
		market:      marketSrc,
		weather:     weatherSrc,
	}
}

func (s *feedService) MarketPrices(ctx context.Context, q MarketQuery) ([]model.MarketPrice, error) {
	if q.Live {
		crop := q.CropName
		if crop == "" && q.CropID != 0 {
			c, err := s.refRepo.CropByID(q.CropID)
			if err == nil {
				crop = c.Name
			}
		}
		feed := s.market.FetchPrices(ctx, gateway.MandiParams{
			Crop:   crop,
			State:  q.State,
			Market: q.MandiName,
		})
		return s.market.NormalizePrices(feed), nil
	}

	return s.marketRepo.ListPrices(repository.PriceFilter{
		CropID:    q.CropID,
		MandiName: q.MandiName,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
	})
}

func (s *feedService) RecordPrice(price *model.MarketPrice) error {
	if price.MandiName == "" || price.Price <= 0 {
		return fmt.Errorf("%w: mandi name and a positive price are required", ErrValidation)
	}
	if price.PriceDate.IsZero() {
		price.PriceDate = time.Now()
	}
	return s.marketRepo.CreatePrice(price)
}

func (s *feedService) Weather(ctx context.Context, q WeatherQuery) ([]model.WeatherData, error) {
	if q.Live {
		if q.Region == "" {
			return nil, fmt.Errorf("%w: region is required for live weather", ErrValidation)
		}
		raw, err := s.weather.FetchForecast(ctx, q.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch live weather: %w", err)
		}
		return gateway.NormalizeForecast(raw, q.Region), nil
	}

	return s.weatherRepo.ListForRegion(q.Region, q.From, q.To)
}

func (s *feedService) RecordWeather(obs *model.WeatherData) error {
	if obs.Region == "" || obs.ForecastDate.IsZero() {
		return fmt.Errorf("%w: region and forecast date are required", ErrValidation)
	}
	return s.weatherRepo.Create(obs)
}
