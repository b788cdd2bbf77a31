package handlers

import (
	"net/http"

	"agrobox/internal/logger"
	"agrobox/internal/metrics"
	"agrobox/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the rendered control-loop view.
type DashboardHandler struct {
	view    service.DashboardView
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewDashboardHandler(view service.DashboardView, m *metrics.Metrics, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{view: view, metrics: m, log: log}
}

// InitRoutes builds the dashboard router.
func (h *DashboardHandler) InitRoutes() *gin.Engine {
	router := newRouter(h.metrics)

	router.GET("/health", health)
	router.GET("/api/dashboard", h.getDashboard)
	// Live view over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

// @Summary      Dashboard view
// @Description  Last rendered sensors, actuators (read-only) and time series.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.View
// @Router       /api/dashboard [get]
func (h *DashboardHandler) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.view.View())
}
