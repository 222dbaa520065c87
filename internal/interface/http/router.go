package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/dailyreport/internal/infra/config"
)

// NewRouter wires the operations endpoints and returns a configured server.
// metrics serves the Prometheus exposition format on /metrics.
func NewRouter(cfg *config.Config, handler *Handler, metrics http.Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/jobs/daily-report/runs", handler.RunDailyReport)
		api.POST("/jobs/weather-snapshot/runs", handler.RunWeatherSnapshot)
		api.GET("/reports", handler.ListReports)
		api.GET("/runs", handler.ListRuns)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
