package stats

import (
	"errors"
	"net/http"

	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GetLeaderboard ranks winners
// @Summary Leaderboard
// @Description Users ranked by wins then prize money, top 20
// @Tags Stats
// @Produce json
// @Param filter query string false "all, week or month" default(all)
// @Success 200 {array} services.LeaderboardEntry
// @Failure 400 {object} map[string]string
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	entries, err := h.stats.Leaderboard(c.Request.Context(), c.Query("filter"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidFilter) {
			response.Error(c, http.StatusBadRequest, ErrInvalidFilter)
			return
		}
		log.WithError(err).Error("Failed to compute leaderboard")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetLeaderboard)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetStats returns the platform counters
// @Summary Platform statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} services.PlatformStats
// @Router /stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to compute stats")
		response.Error(c, http.StatusInternalServerError, ErrFailedToGetStats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
