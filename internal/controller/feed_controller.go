package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"agri-advisor/internal/model"
	"agri-advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedController handles market price and weather feed requests
type FeedController struct {
	feedService service.FeedService
	logger      *slog.Logger
}

// NewFeedController creates a new feed controller
func NewFeedController(feedService service.FeedService, logger *slog.Logger) *FeedController {
	return &FeedController{
		feedService: feedService,
		logger:      logger,
	}
}

// ListMarketPrices handles GET /v1/market-prices
// Query parameters:
//   - live (optional): "1" queries the external feed instead of stored history
//   - crop_id, crop, state, mandi (optional): filters
//   - date_from, date_to (optional): YYYY-MM-DD bounds for stored queries
func (c *FeedController) ListMarketPrices(ctx *gin.Context) {
	q := service.MarketQuery{
		Live:      ctx.Query("live") == "1",
		CropName:  ctx.Query("crop"),
		State:     ctx.Query("state"),
		MandiName: ctx.Query("mandi"),
	}
	if cropIDStr := ctx.Query("crop_id"); cropIDStr != "" {
		cropID, err := strconv.ParseUint(cropIDStr, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid crop_id",
				"message": "crop_id must be a valid unsigned integer",
			})
			return
		}
		q.CropID = uint(cropID)
	}
	var ok bool
	if q.DateFrom, ok = parseDateQuery(ctx, "date_from"); !ok {
		return
	}
	if q.DateTo, ok = parseDateQuery(ctx, "date_to"); !ok {
		return
	}

	prices, err := c.feedService.MarketPrices(ctx.Request.Context(), q)
	if err != nil {
		c.logger.Error("listing market prices failed", "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"prices": prices, "count": len(prices), "live": q.Live})
}

// CreateMarketPrice handles POST /v1/admin/market-prices
func (c *FeedController) CreateMarketPrice(ctx *gin.Context) {
	var price model.MarketPrice
	if err := ctx.ShouldBindJSON(&price); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := c.feedService.RecordPrice(&price); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, price)
}

// ListWeather handles GET /v1/weather
// Query parameters:
//   - region: required when live=1, otherwise an optional filter
//   - live (optional): "1" queries the forecast provider
//   - date_from, date_to (optional): YYYY-MM-DD bounds for stored queries
func (c *FeedController) ListWeather(ctx *gin.Context) {
	q := service.WeatherQuery{
		Live:   ctx.Query("live") == "1",
		Region: ctx.Query("region"),
	}
	var ok bool
	if q.From, ok = parseDateQuery(ctx, "date_from"); !ok {
		return
	}
	if q.To, ok = parseDateQuery(ctx, "date_to"); !ok {
		return
	}

	observations, err := c.feedService.Weather(ctx.Request.Context(), q)
	if err != nil {
		c.logger.Error("listing weather failed", "region", q.Region, "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"weather": observations, "count": len(observations), "live": q.Live})
}

// CreateWeather handles POST /v1/admin/weather
func (c *FeedController) CreateWeather(ctx *gin.Context) {
	var obs model.WeatherData
	if err := ctx.ShouldBindJSON(&obs); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := c.feedService.RecordWeather(&obs); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, obs)
}

// parseDateQuery parses an optional YYYY-MM-DD query value; on a malformed
// value it writes a 400 and returns false.
func parseDateQuery(ctx *gin.Context, name string) (time.Time, bool) {
	value := ctx.Query(name)
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + name,
			"message": name + " must be in YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return t, true
}
