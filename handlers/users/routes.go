package users

import (
	"contesthub/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to users
// r: the RouterGroup to which the routes are added
// auth: the authentication middleware
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	// Public routes
	r.POST("/users", h.RegisterUser)

	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("", middleware.AdminOnly(h.roles), h.GetUsers)
		users.GET("/:email/role", middleware.SelfOrAdmin(h.roles, "email"), h.GetUserRole)
		users.GET("/:email", middleware.SelfOrAdmin(h.roles, "email"), h.GetUserProfile)
		users.PATCH("/:user", middleware.SelfOrAdmin(h.roles, "user"), h.UpdateUserProfile)
		users.PATCH("/:user/role", middleware.AdminOnly(h.roles), h.UpdateUserRole)
	}
}
