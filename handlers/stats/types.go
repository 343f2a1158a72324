package stats

import "contesthub/services"

const (
	ErrInvalidFilter          = "filter must be one of all, week, month"
	ErrFailedToGetLeaderboard = "Failed to get leaderboard"
	ErrFailedToGetStats       = "Failed to get stats"
)

type Handler struct {
	stats *services.StatsService
}

func NewHandler(stats *services.StatsService) *Handler {
	return &Handler{stats: stats}
}
