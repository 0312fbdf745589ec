package controller

import (
	"log/slog"
	"net/http"

	"agri-advisor/internal/middleware"
	"agri-advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthController handles account registration and login
type AuthController struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(authService service.AuthService, logger *slog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /v1/auth/register
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	resp, err := c.authService.Register(req)
	if err != nil {
		c.logger.Warn("registration failed", "email", req.Email, "error", err.Error())
		respondError(ctx, err)
		return
	}

	c.logger.Info("user registered", "user_id", resp.User.ID, "email", resp.User.Email)
	ctx.JSON(http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	resp, err := c.authService.Login(req.Email, req.Password)
	if err != nil {
		c.logger.Warn("login failed", "email", req.Email)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Me handles GET /v1/auth/me
func (c *AuthController) Me(ctx *gin.Context) {
	caller := middleware.CallerIdentity(ctx)
	user, err := c.authService.UserByID(caller.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}
