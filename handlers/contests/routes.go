package contests

import (
	"contesthub/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to contests
// r: the RouterGroup to which the routes are added
// auth: the authentication middleware
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	creatorOrAdmin := middleware.CreatorOrAdmin(h.roles)
	adminOnly := middleware.AdminOnly(h.roles)

	// Public routes
	r.GET("/contests", h.BrowseContests)
	r.GET("/contests/popular", h.GetPopularContests)
	r.GET("/contests/:id", h.GetContest)
	r.GET("/ws/contests/:id", h.ContestWebSocket)

	contests := r.Group("/contests")
	contests.Use(auth)
	{
		contests.POST("", creatorOrAdmin, h.CreateContest)
		contests.GET("/creator/:email", creatorOrAdmin, middleware.SelfOrAdmin(h.roles, "email"), h.GetCreatorContests)
		contests.PATCH("/:id", creatorOrAdmin, h.UpdateContest)
		contests.DELETE("/:id", creatorOrAdmin, h.DeleteContest)
		contests.PATCH("/:id/winner", creatorOrAdmin, h.DeclareWinner)
	}

	admin := r.Group("/admin/contests")
	admin.Use(auth, adminOnly)
	{
		admin.GET("", h.GetAllContests)
		admin.PATCH("/:id/status", h.UpdateContestStatus)
	}
}
