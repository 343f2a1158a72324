package v1

import (
	"context"
	"net/http"
	"time"

	"contesthub/database"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @Summary Liveness banner
// @Tags Health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func onAir(c *gin.Context) {
	c.String(http.StatusOK, "ContestHub is on Air!")
}

// @Summary Health check
// @Description Reports whether the store answers
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			log.WithError(err).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func RegisterHealthRoutes(r *gin.RouterGroup, db *gorm.DB) {
	r.GET("/", onAir)
	r.GET("/health", health(db))
}
