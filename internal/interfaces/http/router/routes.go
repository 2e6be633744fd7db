package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retailops/backoffice/internal/interfaces/http/handler"
	"github.com/retailops/backoffice/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers served by the analytics API
type Handlers struct {
	Report *handler.ReportHandler
	System *handler.SystemHandler
	// FilterBodyLimit caps filter submission bodies; 0 uses middleware.DefaultFilterBodyLimit
	FilterBodyLimit int64
}

// RegisterAnalyticsRoutes wires the health check and the /api/v1 report and system routes
func RegisterAnalyticsRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)

	bodyLimit := h.FilterBodyLimit
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultFilterBodyLimit
	}

	reports := NewDomainGroup("/reports")
	statistics := reports.Group("/statistics")
	statistics.GET("", h.Report.GetStatistics)
	statistics.POST("/filter", middleware.BodyLimit(bodyLimit), h.Report.SubmitStatisticsFilter)
	statistics.GET("/state", h.Report.GetStatisticsState)

	system := NewDomainGroup("/system")
	system.GET("/info", h.System.GetSystemInfo)

	NewRouter(engine).
		Register(reports).
		Register(system).
		Setup()
}
