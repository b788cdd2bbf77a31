package handlers

import (
	"errors"
	"net/http"

	"agrobox/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	msgNoReadings = "No sensor readings available"
	msgSimulated  = "Simulated data inserted"

	errGetCurrent = "failed to load current reading"
	errGetHistory = "failed to load history"
	errSimulate   = "failed to insert simulated data"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current reading
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  models.SensorSnapshot
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/sensors/current [get]
func (h *Handler) getCurrent(c *gin.Context) {
	snap, err := h.services.Sensors.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoReadings) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgNoReadings})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetCurrent, "sensors_current_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Recent readings
// @Description  Last N readings, oldest first, as index-aligned sequences.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  models.HistoricalSeries
// @Failure      500  {object}  map[string]string
// @Router       /api/sensors/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	hs, err := h.services.Sensors.History(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetHistory, "sensors_history_failed", err)
		return
	}
	c.JSON(http.StatusOK, hs)
}

// @Summary      Seed demo readings
// @Description  Inserts three readings when the table is empty.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message, inserted"
// @Failure      500  {object}  map[string]string
// @Router       /api/simulate_data [post]
func (h *Handler) simulateData(c *gin.Context) {
	n, err := h.services.Sensors.Seed(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSimulate, "simulate_data_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgSimulated, "inserted": n})
}
