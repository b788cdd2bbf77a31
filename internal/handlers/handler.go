package handlers

import (
	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the backend HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{services: services, metrics: m, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := newRouter(h.metrics)

	router.GET("/health", health)

	api := router.Group("/api")
	{
		h.registerSensorRoutes(api)
		h.registerControlRoutes(api)
		h.registerLogRoutes(api)
	}

	return router
}

// newRouter carries what both processes serve: recovery, request metrics,
// swagger and /metrics.
func newRouter(m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), m.GinMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))
	return router
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.GET("/current", h.getCurrent)
		sensors.GET("/history", h.getHistory)
	}
	api.POST("/simulate_data", h.simulateData)
}

func (h *Handler) registerControlRoutes(api *gin.RouterGroup) {
	// Body example: {"pump":true,"uvLamp":false,"peltier":true}
	api.GET("/controls", h.getControls)
	api.POST("/controls", h.updateControls)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/actuators/log", h.getActuatorLog)
}
