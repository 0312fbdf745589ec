package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"agri-advisor/internal/cache"
	"agri-advisor/internal/model"
)

const (
	weatherCacheTTL = 10 * time.Minute
	forecastDays    = 7
)

// ErrWeatherNotConfigured is returned when the provider credentials are
// missing. Unlike the market gateway there is no mock fallback here; degrade
// decisions belong to the caller.
var ErrWeatherNotConfigured = errors.New("weather provider credentials not configured")

// RawForecast is the provider-shaped forecast payload, cached as-is.
type RawForecast struct {
	Days []RawForecastDay `json:"days"`
}

// RawForecastDay mirrors the provider's day entry. Temperature may arrive
// under either of two fields depending on the plan.
type RawForecastDay struct {
	Datetime string   `json:"datetime"`
	TempMax  *float64 `json:"tempmax,omitempty"`
	Temp     *float64 `json:"temp,omitempty"`
	Precip   *float64 `json:"precip,omitempty"`
	Humidity *float64 `json:"humidity,omitempty"`
}

// WeatherGateway fetches multi-day forecasts. It fails closed: no
// credentials or a provider error propagates to the caller.
type WeatherGateway struct {
	store      cache.Store
	httpClient *http.Client
	apiKey     string
	apiHost    string
	logger     *slog.Logger
}

// NewWeatherGateway creates a weather gateway. Both credentials (key and
// host) are required for live fetches.
func NewWeatherGateway(store cache.Store, httpClient *http.Client, apiKey, apiHost string, logger *slog.Logger) *WeatherGateway {
	return &WeatherGateway{
		store:      store,
		httpClient: httpClient,
		apiKey:     apiKey,
		apiHost:    apiHost,
		logger:     logger,
	}
}

// FetchForecast returns the raw forecast for a region, cached for ten
// minutes.
func (g *WeatherGateway) FetchForecast(ctx context.Context, region string) (RawForecast, error) {
	if g.apiKey == "" || g.apiHost == "" {
		return RawForecast{}, ErrWeatherNotConfigured
	}

	key := "weather:" + region

	var cached RawForecast
	if found, err := g.store.Get(ctx, key, &cached); err == nil && found {
		g.logger.Debug("weather cache hit", "region", region)
		return cached, nil
	}

	endpoint := fmt.Sprintf("https://%s/timeline/%s?unitGroup=metric&contentType=json&key=%s",
		g.apiHost, url.PathEscape(region), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return RawForecast{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return RawForecast{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RawForecast{}, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var forecast RawForecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return RawForecast{}, fmt.Errorf("decode weather payload: %w", err)
	}

	if err := g.store.Set(ctx, key, forecast, weatherCacheTTL); err != nil {
		g.logger.Warn("weather cache write failed", "error", err.Error())
	}
	return forecast, nil
}

// NormalizeForecast maps the first seven provider days to canonical
// observations. Whichever temperature field is present wins; absent readings
// default to zero.
func NormalizeForecast(raw RawForecast, region string) []model.WeatherData {
	days := raw.Days
	if len(days) > forecastDays {
		days = days[:forecastDays]
	}

	window := make([]model.WeatherData, 0, len(days))
	for _, d := range days {
		date, err := time.Parse("2006-01-02", d.Datetime)
		if err != nil {
			date = time.Time{}
		}
		window = append(window, model.WeatherData{
			Region:       region,
			ForecastDate: date,
			Temperature:  firstValue(d.TempMax, d.Temp),
			Rainfall:     firstValue(d.Precip),
			Humidity:     firstValue(d.Humidity),
		})
	}
	return window
}

func firstValue(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}
