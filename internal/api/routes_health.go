package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, db *gorm.DB, rateStore middleware.RateStore) {
	api := r.Group("/api")

	if !cfg.Monitoring.Health.Enabled {
		for _, router := range []gin.IRouter{r, api} {
			router.GET("/health", disabledHealthHandler)
			router.GET("/health/live", disabledHealthHandler)
			router.GET("/health/ready", disabledHealthHandler)
		}
		return
	}

	checks := []handlers.HealthCheck{{
		Name:  "database",
		Probe: func(ctx context.Context) error { return database.Ping(ctx, db) },
	}}
	if p, ok := rateStore.(pinger); ok {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Probe: p.Ping})
	}

	readiness := handlers.Readiness(checks...)
	for _, router := range []gin.IRouter{r, api} {
		router.GET("/health", readiness)
		router.GET("/health/live", handlers.Liveness())
		router.GET("/health/ready", readiness)
	}
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
