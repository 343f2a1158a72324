package payments

import (
	"contesthub/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to payments
// r: the RouterGroup to which the routes are added
// auth: the authentication middleware
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/create-payment-intent", auth, h.CreatePaymentIntent)
	r.POST("/verify-payment", auth, h.VerifyPayment)
	r.GET("/payments/:email", auth, middleware.SelfOrAdmin(h.roles, "email"), h.GetPaymentHistory)
}
