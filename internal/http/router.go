package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rentroll-ai/backend/internal/config"
	"github.com/rentroll-ai/backend/internal/db"
	"github.com/rentroll-ai/backend/internal/http/handlers"
	"github.com/rentroll-ai/backend/internal/http/middleware"
	"github.com/rentroll-ai/backend/internal/service"

	_ "github.com/rentroll-ai/backend/docs"
)

func Router(cfg config.Config, store *db.Store, optimize *service.OptimizeService, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Optimize:  optimize,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api/v1")
	{
		api.GET("/units", h.UnitsList)
		api.GET("/units/:id", h.UnitDetails)
		api.GET("/units/:id/comparables", h.UnitComparables)
		api.POST("/units/:id/optimize", h.OptimizeUnit)
		api.GET("/summary", h.Summary)
		api.GET("/properties", h.Properties)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/batch/optimize", h.BatchOptimize)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
