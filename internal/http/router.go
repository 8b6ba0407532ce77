package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"notify_hub/internal/config"
	"notify_hub/internal/http/controller"
	"notify_hub/internal/http/dto"
	"notify_hub/internal/http/middleware"
	"notify_hub/internal/http/resp"
	"notify_hub/internal/ws"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, wsHandler *ws.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ZapLogger(logger), middleware.ZapRecovery(logger), otelgin.Middleware(cfg.OTELServiceName))

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.Serve)

	api := router.Group("/api")
	api.POST("/notifications", handler.CreateNotification)
	api.POST("/notifications/publish", handler.PublishNotification)
	api.GET("/notifications/:id", handler.ListNotifications)
	api.PATCH("/notifications/:id/read", handler.MarkRead)
	api.PATCH("/notifications/:id/read-all", handler.MarkAllRead)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "not found"})
	})

	return router
}
