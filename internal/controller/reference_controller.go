package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"agri-advisor/internal/model"
	"agri-advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// ReferenceController handles crop and preservation action requests
type ReferenceController struct {
	referenceService service.ReferenceService
	logger           *slog.Logger
}

// NewReferenceController creates a new reference controller
func NewReferenceController(referenceService service.ReferenceService, logger *slog.Logger) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
		logger:           logger,
	}
}

// ListCrops handles GET /v1/crops
func (c *ReferenceController) ListCrops(ctx *gin.Context) {
	crops, err := c.referenceService.ListCrops()
	if err != nil {
		c.logger.Error("listing crops failed", "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"crops": crops, "count": len(crops)})
}

// GetCrop handles GET /v1/crops/{id}
func (c *ReferenceController) GetCrop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	crop, err := c.referenceService.CropByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, crop)
}

// CreateCrop handles POST /v1/admin/crops
func (c *ReferenceController) CreateCrop(ctx *gin.Context) {
	var crop model.Crop
	if err := ctx.ShouldBindJSON(&crop); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := c.referenceService.CreateCrop(&crop); err != nil {
		c.logger.Error("creating crop failed", "name", crop.Name, "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, crop)
}

// UpdateCrop handles PUT /v1/admin/crops/{id}
func (c *ReferenceController) UpdateCrop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var crop model.Crop
	if err := ctx.ShouldBindJSON(&crop); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := c.referenceService.UpdateCrop(id, &crop); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, crop)
}

// DeleteCrop handles DELETE /v1/admin/crops/{id}
func (c *ReferenceController) DeleteCrop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.referenceService.DeleteCrop(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Crop deleted"})
}

// ListPreservationActions handles GET /v1/preservation-actions
func (c *ReferenceController) ListPreservationActions(ctx *gin.Context) {
	actions, err := c.referenceService.ListPreservationActions()
	if err != nil {
		c.logger.Error("listing preservation actions failed", "error", err.Error())
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"actions": actions, "count": len(actions)})
}

// CreatePreservationAction handles POST /v1/admin/preservation-actions
func (c *ReferenceController) CreatePreservationAction(ctx *gin.Context) {
	var action model.PreservationAction
	if err := ctx.ShouldBindJSON(&action); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	if err := c.referenceService.CreatePreservationAction(&action); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, action)
}

// parseIDParam parses the path id or writes a 400 and returns false.
func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid id",
			"message": "id must be a valid unsigned integer",
		})
		return 0, false
	}
	return uint(id), true
}
