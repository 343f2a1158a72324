package participants

import (
	"contesthub/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the participant, submission and winner routes
// r: the RouterGroup to which the routes are added
// auth: the authentication middleware
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	creatorOrAdmin := middleware.CreatorOrAdmin(h.roles)

	participants := r.Group("/participants")
	participants.Use(auth)
	{
		participants.POST("", h.RegisterParticipant)
		participants.GET("/check", h.CheckRegistration)
		participants.GET("/:email", middleware.SelfOrAdmin(h.roles, "email"), h.GetUserParticipations)
		participants.PATCH("/:id/submit", h.SubmitTask)
	}

	submissions := r.Group("/submissions")
	submissions.Use(auth, creatorOrAdmin)
	{
		submissions.GET("/:contestId", h.GetSubmissions)
		submissions.GET("/:contestId/export", h.ExportSubmissions)
	}

	r.GET("/winners/:email", auth, middleware.SelfOrAdmin(h.roles, "email"), h.GetUserWins)
}
