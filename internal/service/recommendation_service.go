package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agri-advisor/internal/gateway"
	"agri-advisor/internal/market"
	"agri-advisor/internal/model"
	"agri-advisor/internal/repository"
	"agri-advisor/internal/soil"
	"agri-advisor/internal/spoilage"

	"gorm.io/gorm"
)

const (
	defaultQuantity  = 100.0
	topActionsCount  = 3
	storedWindowSize = 7
)

// Identity is the authenticated caller, resolved by the auth middleware.
type Identity struct {
	UserID uint
	Role   string
}

// GenerateRequest is the single entry contract for a recommendation run.
// Soil and storage inputs are optional; nil fields are simply not applied.
type GenerateRequest struct {
	CropID   uint                       `json:"crop_id" binding:"required"`
	Region   string                     `json:"region"`
	Quantity float64                    `json:"quantity"`
	Soil     soil.Measurements          `json:"soil"`
	Storage  spoilage.StorageConditions `json:"storage"`
}

// GenerateResponse is the persisted recommendation augmented with the data
// the caller wants alongside it.
type GenerateResponse struct {
	model.Recommendation
	PreservationActions []model.PreservationAction `json:"preservation_actions"`
	Weather             []model.WeatherData        `json:"weather"`
}

// WeatherSource fetches a raw multi-day forecast for a region.
type WeatherSource interface {
	FetchForecast(ctx context.Context, region string) (gateway.RawForecast, error)
}

// MarketSource fetches and normalizes live mandi prices. It never fails;
// synthetic data is its terminal fallback.
type MarketSource interface {
	FetchPrices(ctx context.Context, p gateway.MandiParams) gateway.RawPriceFeed
	NormalizePrices(raw gateway.RawPriceFeed) []model.MarketPrice
}

// Oracle consults the optional ML service; nil means no opinion.
type Oracle interface {
	Recommend(ctx context.Context, req gateway.OracleRequest) *gateway.OracleSuggestion
}

// RecommendationService orchestrates one recommendation run per call and
// serves read-back of persisted recommendations.
type RecommendationService interface {
	Generate(ctx context.Context, caller Identity, req GenerateRequest) (*GenerateResponse, error)
	ListForUser(userID uint) ([]model.Recommendation, error)
	ListAll() ([]model.Recommendation, error)
}

// recommendationService implements RecommendationService
type recommendationService struct {
	refRepo     repository.ReferenceRepository
	marketRepo  repository.MarketRepository
	weatherRepo repository.WeatherRepository
	recRepo     repository.RecommendationRepository
	weather     WeatherSource
	market      MarketSource
	oracle      Oracle
	logger      *slog.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	refRepo repository.ReferenceRepository,
	marketRepo repository.MarketRepository,
	weatherRepo repository.WeatherRepository,
	recRepo repository.RecommendationRepository,
	weatherSrc WeatherSource,
	marketSrc MarketSource,
	oracle Oracle,
	logger *slog.Logger,
) RecommendationService {
	return &recommendationService{
		refRepo:     refRepo,
		marketRepo:  marketRepo,
		weatherRepo: weatherRepo,
		recRepo:     recRepo,
		weather:     weatherSrc,
		market:      marketSrc,
		oracle:      oracle,
		logger:      logger,
	}
}

// Generate runs the full orchestration: validate, gather signals, consult the
// oracle, fall back to heuristics, persist once, respond. External data
// unavailability never aborts the run; only invalid input or a persistence
// failure does.
func (s *recommendationService) Generate(ctx context.Context, caller Identity, req GenerateRequest) (*GenerateResponse, error) {
	if caller.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if req.CropID == 0 {
		return nil, fmt.Errorf("%w: crop_id is required", ErrValidation)
	}

	crop, err := s.refRepo.CropByID(req.CropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown crop %d", ErrValidation, req.CropID)
		}
		return nil, fmt.Errorf("failed to load crop: %w", err)
	}

	region, err := s.resolveRegion(caller.UserID, req.Region)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = defaultQuantity
	}

	window := s.weatherWindow(ctx, region)
	baseRisk := spoilage.EstimateRisk(window)

	suggestion := s.oracle.Recommend(ctx, gateway.OracleRequest{
		CropID:      req.CropID,
		Region:      region,
		Quantity:    quantity,
		Soil:        req.Soil,
		Storage:     req.Storage,
		Weather:     window,
		MandiPrices: []model.MarketPrice{},
	})

	rec := model.Recommendation{
		UserID:    caller.UserID,
		CropID:    req.CropID,
		SoilScore: soilScore(req.Soil, *crop),
	}

	if suggestion != nil && suggestion.SuggestedMandi != "" {
		// Adopt the oracle's suggestion, but the persisted risk must still
		// reflect the caller's real storage and transit conditions.
		prior := baseRisk
		if suggestion.SpoilageRisk != nil {
			prior = *suggestion.SpoilageRisk
		}
		risk := spoilage.AdjustRisk(prior, req.Storage)

		rec.SuggestedMandi = suggestion.SuggestedMandi
		rec.HarvestWindow = suggestion.HarvestWindow
		if rec.HarvestWindow == "" {
			rec.HarvestWindow = harvestWindow(risk)
		}
		rec.SpoilageRisk = risk
		rec.PredictedProfit = suggestion.PredictedProfit
		rec.PredictedPrice = suggestion.PredictedPrice
		rec.ExplanationText = suggestion.ExplanationText
	} else {
		s.heuristicRecommendation(ctx, &rec, crop, region, quantity, req.Storage, baseRisk)
	}

	actions := s.topPreservationActions()

	if err := s.recRepo.Create(&rec); err != nil {
		return nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}

	s.logger.Info("recommendation generated",
		"user_id", caller.UserID,
		"crop", crop.Name,
		"region", region,
		"mandi", rec.SuggestedMandi,
		"spoilage_risk", rec.SpoilageRisk,
	)

	return &GenerateResponse{
		Recommendation:      rec,
		PreservationActions: actions,
		Weather:             window,
	}, nil
}

func (s *recommendationService) ListForUser(userID uint) ([]model.Recommendation, error) {
	return s.recRepo.ListForUser(userID)
}

func (s *recommendationService) ListAll() ([]model.Recommendation, error) {
	return s.recRepo.ListAll()
}

// resolveRegion falls back to the caller's stored region when the request
// leaves it blank. No region anywhere is a validation failure.
func (s *recommendationService) resolveRegion(userID uint, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	user, err := s.refRepo.UserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: region is required", ErrValidation)
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user.Region == "" {
		return "", fmt.Errorf("%w: region is required", ErrValidation)
	}
	return user.Region, nil
}

// weatherWindow gathers the forecast window: live feed first, stored
// observations second, and an empty window (scored at the no-data prior)
// when both are unavailable. Never fails.
func (s *recommendationService) weatherWindow(ctx context.Context, region string) []model.WeatherData {
	raw, err := s.weather.FetchForecast(ctx, region)
	if err == nil {
		if window := gateway.NormalizeForecast(raw, region); len(window) > 0 {
			return window
		}
	} else {
		s.logger.Warn("weather feed unavailable, falling back to stored observations",
			"region", region,
			"error", err.Error(),
		)
	}

	stored, err := s.weatherRepo.RecentForRegion(region, storedWindowSize)
	if err != nil {
		s.logger.Warn("stored weather lookup failed", "region", region, "error", err.Error())
		return nil
	}
	return stored
}

// heuristicRecommendation fills the recommendation from local signals: live
// and stored market candidates, the transport cost model, and the storage
// risk adjustment.
func (s *recommendationService) heuristicRecommendation(
	ctx context.Context,
	rec *model.Recommendation,
	crop *model.Crop,
	region string,
	quantity float64,
	storage spoilage.StorageConditions,
	baseRisk float64,
) {
	feed := s.market.FetchPrices(ctx, gateway.MandiParams{Crop: crop.Name, State: region})
	live := s.market.NormalizePrices(feed)

	stored, err := s.marketRepo.BestStoredPrice(crop.ID)
	if err != nil {
		s.logger.Warn("stored price lookup failed", "crop", crop.Name, "error", err.Error())
		stored = nil
	}

	sel := market.SelectMandi(live, stored)
	transportCost := market.EstimateTransportCost(quantity, sel.DistanceKm)
	profit := market.CalculateProfit(sel.Price, quantity, transportCost)
	risk := spoilage.AdjustRisk(baseRisk, storage)

	score := 0
	if rec.SoilScore != nil {
		score = *rec.SoilScore
	}

	rec.SuggestedMandi = sel.MandiName
	rec.HarvestWindow = harvestWindow(risk)
	rec.SpoilageRisk = risk
	rec.PredictedProfit = profit
	rec.PredictedPrice = sel.Price
	rec.ExplanationText = fmt.Sprintf(
		"Recommended %s (%s) at %.0f/quintal. Soil suitability: %d%%. Spoilage risk adjusted from %.2f to %.2f for your storage and transit conditions.",
		sel.MandiName, sel.Rationale, sel.Price, score, baseRisk, risk,
	)
}

// topPreservationActions returns the top ranked actions for display. A
// lookup failure degrades to an empty list; the actions never influence the
// recommendation itself.
func (s *recommendationService) topPreservationActions() []model.PreservationAction {
	actions, err := s.refRepo.RankedPreservationActions()
	if err != nil {
		s.logger.Warn("preservation action lookup failed", "error", err.Error())
		return []model.PreservationAction{}
	}
	if len(actions) > topActionsCount {
		actions = actions[:topActionsCount]
	}
	return actions
}

// soilScore computes the suitability percent, or nil when nothing was
// measured.
func soilScore(m soil.Measurements, crop model.Crop) *int {
	if m.PH == nil && m.N == nil && m.P == nil && m.K == nil {
		return nil
	}
	score := soil.ScorePercent(m, crop)
	return &score
}

// harvestWindow maps adjusted risk to an advisory range: the riskier the
// produce, the sooner it should come in.
func harvestWindow(risk float64) string {
	switch {
	case risk > 0.7:
		return "1-2 days"
	case risk > 0.5:
		return "2-4 days"
	default:
		return "3-7 days"
	}
}
