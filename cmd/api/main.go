package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"agri-advisor/internal/cache"
	"agri-advisor/internal/config"
	"agri-advisor/internal/controller"
	"agri-advisor/internal/gateway"
	"agri-advisor/internal/middleware"
	"agri-advisor/internal/model"
	"agri-advisor/internal/repository"
	"agri-advisor/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Crop{},
		&model.MarketPrice{},
		&model.WeatherData{},
		&model.PreservationAction{},
		&model.Recommendation{},
	); err != nil {
		logger.Error("failed to migrate database", "error", err.Error())
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if cfg.SeedDB {
		seedRepo := repository.NewSeedRepository(db, rng)
		if err := seedRepo.SeedDatabase(); err != nil {
			logger.Error("failed to seed database", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("database seeded")
	}

	var store cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisAddr, "", 0)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache", "error", err.Error())
			store = cache.NewMemoryStore()
		} else {
			logger.Info("using redis cache", "addr", cfg.RedisAddr)
			store = redisStore
		}
	} else {
		store = cache.NewMemoryStore()
	}

	gatewayClient := &http.Client{Timeout: cfg.GatewayTimeout}
	oracleClient := &http.Client{Timeout: cfg.OracleTimeout}

	mandiGateway := gateway.NewMandiGateway(store, gatewayClient, cfg.DataGovAPIKey, cfg.MandiBaseURL, rng, logger)
	weatherGateway := gateway.NewWeatherGateway(store, gatewayClient, cfg.WeatherAPIKey, cfg.WeatherAPIHost, logger)
	oracle := gateway.NewOracleClient(cfg.MLServiceURL, oracleClient, logger)

	refRepo := repository.NewReferenceRepository(db)
	marketRepo := repository.NewMarketRepository(db)
	weatherRepo := repository.NewWeatherRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	authService := service.NewAuthService(refRepo, cfg.JWTSecret, cfg.JWTExpiry)
	referenceService := service.NewReferenceService(refRepo)
	feedService := service.NewFeedService(refRepo, marketRepo, weatherRepo, mandiGateway, weatherGateway)
	recommendationService := service.NewRecommendationService(
		refRepo, marketRepo, weatherRepo, recRepo,
		weatherGateway, mandiGateway, oracle, logger,
	)

	authController := controller.NewAuthController(authService, logger)
	referenceController := controller.NewReferenceController(referenceService, logger)
	feedController := controller.NewFeedController(feedService, logger)
	recommendationController := controller.NewRecommendationController(recommendationService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(middleware.StructuredLoggingMiddleware(logger))
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/me", middleware.AuthMiddleware(authService), authController.Me)
		}

		v1.GET("/crops", referenceController.ListCrops)
		v1.GET("/crops/:id", referenceController.GetCrop)
		v1.GET("/preservation-actions", referenceController.ListPreservationActions)
		v1.GET("/market-prices", feedController.ListMarketPrices)
		v1.GET("/weather", feedController.ListWeather)

		protected := v1.Group("", middleware.AuthMiddleware(authService))
		{
			protected.POST("/recommendations", recommendationController.Generate)
			protected.GET("/recommendations", recommendationController.ListMine)
			protected.POST("/spoilage/simulate", recommendationController.Simulate)

			admin := protected.Group("/admin", middleware.RequireRole("admin"))
			{
				admin.GET("/recommendations", recommendationController.ListAll)
				admin.POST("/crops", referenceController.CreateCrop)
				admin.PUT("/crops/:id", referenceController.UpdateCrop)
				admin.DELETE("/crops/:id", referenceController.DeleteCrop)
				admin.POST("/preservation-actions", referenceController.CreatePreservationAction)
				admin.POST("/market-prices", feedController.CreateMarketPrice)
				admin.POST("/weather", feedController.CreateWeather)
			}
		}
	}

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
