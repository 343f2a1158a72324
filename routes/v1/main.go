package v1

import (
	"contesthub/config"
	"contesthub/handlers/contests"
	"contesthub/handlers/participants"
	"contesthub/handlers/payments"
	"contesthub/handlers/stats"
	"contesthub/handlers/users"
	"contesthub/middleware"
	"contesthub/realtime"
	"contesthub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the shared services the routes are built from
type Dependencies struct {
	DB           *gorm.DB
	Verifier     services.IdentityVerifier
	Users        *services.UserService
	Contests     *services.ContestService
	Participants *services.ParticipantService
	Payments     *services.PaymentService
	Stats        *services.StatsService
	Hub          *realtime.Hub
	Notifier     services.WinnerNotifier
}

// NewRouter builds the gin engine with the global middleware and every route
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg)))

	Register(r, cfg.RateLimit, deps)
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowCredentials = true
	if len(cfg.CorsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CorsOrigins
	}
	return corsCfg
}

// Register the endpoints of the API
func Register(r *gin.Engine, rateLimit config.RateLimitConfig, deps Dependencies) {
	api := r.Group("/")

	// Add metrics middleware to all routes
	api.Use(middleware.MetricsMiddleware())
	api.Use(middleware.RateLimiterMiddleware(middleware.NewRateLimiter(rateLimit)))

	auth := middleware.AuthMiddleware(deps.Verifier)

	RegisterHealthRoutes(api, deps.DB)
	users.NewHandler(deps.Users).RegisterRoutes(api, auth)
	contests.NewHandler(deps.Contests, deps.Users, deps.Hub, deps.Notifier).RegisterRoutes(api, auth)
	participants.NewHandler(deps.Participants, deps.Contests, deps.Users, deps.Hub).RegisterRoutes(api, auth)
	payments.NewHandler(deps.Payments, deps.Users, deps.Hub).RegisterRoutes(api, auth)
	stats.NewHandler(deps.Stats).RegisterRoutes(api)

	// Register metrics and documentation endpoints
	RegisterMetricsRoutes(api)
	RegisterSwaggerRoutes(api)
}
