package handlers

import (
	"net/http"

	"agrobox/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgControlsUpdated = "Controls updated successfully"

	errGetControls     = "failed to load controls"
	errUpdateControls  = "failed to update controls"
	errInvalidBodyPref = "invalid body: "
)

// ControlsRequest is the push payload. Missing keys read as false.
type ControlsRequest struct {
	Pump    bool `json:"pump" example:"true"`
	UVLamp  bool `json:"uvLamp" example:"false"`
	Peltier bool `json:"peltier" example:"true"`
}

// @Summary      Get controls
// @Tags         controls
// @Produce      json
// @Success      200  {object}  models.ControlSet
// @Failure      500  {object}  map[string]string
// @Router       /api/controls [get]
func (h *Handler) getControls(c *gin.Context) {
	cs, err := h.services.Controls.Get(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetControls, "controls_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

// @Summary      Update controls
// @Description  Stores the three active flags. An active peltier heats or cools by the latest stored temperature.
// @Tags         controls
// @Accept       json
// @Produce      json
// @Param        body  body  ControlsRequest  true  "Control payload"
// @Success      200   {object}  map[string]interface{}  "message, controls"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/controls [post]
func (h *Handler) updateControls(c *gin.Context) {
	var req ControlsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	cs, err := h.services.Controls.Update(c.Request.Context(), models.ControlUpdate{
		Pump:    req.Pump,
		UVLamp:  req.UVLamp,
		Peltier: req.Peltier,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateControls, "controls_update_failed", err,
			"pump", req.Pump, "uv_lamp", req.UVLamp, "peltier", req.Peltier)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgControlsUpdated, "controls": cs})
}
