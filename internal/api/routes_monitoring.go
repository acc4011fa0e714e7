package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
)

func registerMonitoringRoutes(r *gin.Engine, cfg *app.Config) {
	prom := cfg.Monitoring.Prometheus
	if !prom.Enabled {
		return
	}

	endpoint := strings.TrimSpace(prom.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}
	r.GET(endpoint, gin.WrapH(promhttp.Handler()))
}
