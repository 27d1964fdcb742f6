package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-complaints-api/internal/middleware"
	"github.com/noah-isme/campus-complaints-api/internal/service"
	"github.com/noah-isme/campus-complaints-api/pkg/config"
	"github.com/noah-isme/campus-complaints-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-complaints-api/pkg/middleware/cors"
	"github.com/noah-isme/campus-complaints-api/pkg/middleware/meta"
	reqidmiddleware "github.com/noah-isme/campus-complaints-api/pkg/middleware/requestid"
)

type routeDeps struct {
	complaints *handler.ComplaintHandler
	ops        *handler.MetricsHandler
	metrics    *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(meta.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics))

	r.GET("/health", deps.ops.Health)
	r.GET("/ready", deps.ops.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", deps.ops.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/departments", deps.complaints.Departments)

	sessions := api.Group("/sessions")
	sessions.POST("", deps.complaints.CreateSession)
	sessions.GET("/:sessionId", deps.complaints.GetSession)
	sessions.PUT("/:sessionId/view", deps.complaints.SetView)
	sessions.GET("/:sessionId/notifications", deps.complaints.Notifications)

	complaints := sessions.Group("/:sessionId/complaints")
	complaints.POST("", deps.complaints.Submit)
	complaints.GET("", deps.complaints.List)
	complaints.GET("/export", deps.complaints.Export)
	complaints.GET("/:complaintId", deps.complaints.Get)

	return r
}
