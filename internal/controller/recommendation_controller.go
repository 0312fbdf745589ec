package controller

import (
	"log/slog"
	"net/http"

	"agri-advisor/internal/middleware"
	"agri-advisor/internal/service"
	"agri-advisor/internal/spoilage"

	"github.com/gin-gonic/gin"
)

// RecommendationController handles recommendation and simulation requests
type RecommendationController struct {
	recommendationService service.RecommendationService
	logger                *slog.Logger
}

// NewRecommendationController creates a new recommendation controller
func NewRecommendationController(recommendationService service.RecommendationService, logger *slog.Logger) *RecommendationController {
	return &RecommendationController{
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// Generate handles POST /v1/recommendations
func (c *RecommendationController) Generate(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	caller := middleware.CallerIdentity(ctx)
	resp, err := c.recommendationService.Generate(ctx.Request.Context(), caller, req)
	if err != nil {
		c.logger.Error("recommendation generation failed",
			"user_id", caller.UserID,
			"crop_id", req.CropID,
			"error", err.Error(),
		)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /v1/recommendations
func (c *RecommendationController) ListMine(ctx *gin.Context) {
	caller := middleware.CallerIdentity(ctx)
	recs, err := c.recommendationService.ListForUser(caller.UserID)
	if err != nil {
		c.logger.Error("listing recommendations failed", "user_id", caller.UserID, "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

// ListAll handles GET /v1/admin/recommendations
func (c *RecommendationController) ListAll(ctx *gin.Context) {
	recs, err := c.recommendationService.ListAll()
	if err != nil {
		c.logger.Error("listing all recommendations failed", "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

// Simulate handles POST /v1/spoilage/simulate. The simulation is a pure
// what-if tool: nothing is persisted and no market logic runs.
func (c *RecommendationController) Simulate(ctx *gin.Context) {
	var input spoilage.SimulationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	result := spoilage.Simulate(input)
	ctx.JSON(http.StatusOK, result)
}
