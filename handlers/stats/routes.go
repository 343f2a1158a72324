package stats

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public leaderboard and platform statistics routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/stats", h.GetStats)
}
