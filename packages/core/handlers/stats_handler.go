package handlers

import (
	"net/http"

	"robotics-event-api/packages/core/models"
	"robotics-event-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
	settings     models.CompetitionSettings
}

func NewStatsHandler(statsService *services.StatsService, settings models.CompetitionSettings) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		settings:     settings,
	}
}

// GetStats returns dashboard counters
// @Summary Dashboard statistics
// @Description Team and match counts plus the currently ongoing match
// @Tags stats
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} map[string]string
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetSettings returns the match timing configuration
// @Summary Competition settings
// @Tags stats
// @Produce json
// @Success 200 {object} models.CompetitionSettings
// @Router /settings/competition [get]
func (h *StatsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings)
}
