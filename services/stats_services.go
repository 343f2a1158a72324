package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"contesthub/metrics"
	"contesthub/models"

	"gorm.io/gorm"
)

const (
	LeaderboardLimit   = 20
	RecentWinnersLimit = 5
)

// Leaderboard windows
const (
	FilterAll   = "all"
	FilterWeek  = "week"
	FilterMonth = "month"
)

// LeaderboardEntry is one ranked user
type LeaderboardEntry struct {
	UserEmail  string  `json:"userEmail"`
	UserName   string  `json:"userName"`
	UserPhoto  string  `json:"userPhoto"`
	WinCount   int     `json:"winCount"`
	TotalPrize float64 `json:"totalPrize"`
}

// RecentWinner summarizes a recently decided contest
type RecentWinner struct {
	ContestID        string     `json:"contestId"`
	ContestName      string     `json:"contestName"`
	ContestType      string     `json:"contestType"`
	WinnerName       string     `json:"winnerName"`
	WinnerPhoto      string     `json:"winnerPhoto"`
	PrizeMoney       float64    `json:"prizeMoney"`
	WinnerDeclaredAt *time.Time `json:"winnerDeclaredAt"`
}

// PlatformStats are the public platform counters
type PlatformStats struct {
	TotalContests     int64          `json:"totalContests"`
	TotalParticipants int64          `json:"totalParticipants"`
	TotalWinners      int64          `json:"totalWinners"`
	TotalPrizeMoney   float64        `json:"totalPrizeMoney"`
	RecentWinners     []RecentWinner `json:"recentWinners"`
}

type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// windowStart returns the earliest win time counted by filter, or nil for no bound
func windowStart(filter string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch strings.ToLower(filter) {
	case "", FilterAll:
		return nil, nil
	case FilterWeek:
		since = now.AddDate(0, 0, -7)
	case FilterMonth:
		since = now.AddDate(0, 0, -30)
	default:
		return nil, ErrInvalidFilter
	}
	return &since, nil
}

// Leaderboard ranks users by wins, then by prize money, within the filter window
func (s *StatsService) Leaderboard(ctx context.Context, filter string) ([]LeaderboardEntry, error) {
	defer metrics.RecordDBOperation("leaderboard", "participants", time.Now())

	since, err := windowStart(filter, s.now().UTC())
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("is_winner = ?", true)
	if since != nil {
		query = query.Where("won_at >= ?", *since)
	}
	var wins []models.Participant
	if err := query.Order("won_at ASC").Order("created_at ASC").Find(&wins).Error; err != nil {
		return nil, err
	}
	return rankWinners(wins), nil
}

// rankWinners groups wins by user keeping the first seen name and photo
func rankWinners(wins []models.Participant) []LeaderboardEntry {
	byEmail := map[string]*LeaderboardEntry{}
	var order []string
	for _, w := range wins {
		entry, ok := byEmail[w.UserEmail]
		if !ok {
			entry = &LeaderboardEntry{
				UserEmail: w.UserEmail,
				UserName:  w.UserName,
				UserPhoto: w.UserPhoto,
			}
			byEmail[w.UserEmail] = entry
			order = append(order, w.UserEmail)
		}
		entry.WinCount++
		if w.PrizeMoney != nil {
			entry.TotalPrize += *w.PrizeMoney
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, email := range order {
		entries = append(entries, *byEmail[email])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinCount != entries[j].WinCount {
			return entries[i].WinCount > entries[j].WinCount
		}
		return entries[i].TotalPrize > entries[j].TotalPrize
	})
	if len(entries) > LeaderboardLimit {
		entries = entries[:LeaderboardLimit]
	}
	return entries
}

// Stats computes the public platform counters
func (s *StatsService) Stats(ctx context.Context) (*PlatformStats, error) {
	defer metrics.RecordDBOperation("stats", "contests", time.Now())

	db := s.db.WithContext(ctx)
	stats := &PlatformStats{RecentWinners: []RecentWinner{}}

	if err := db.Model(&models.Contest{}).Where("status = ?", models.ContestApproved).Count(&stats.TotalContests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Participant{}).Count(&stats.TotalParticipants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Participant{}).Where("is_winner = ?", true).Count(&stats.TotalWinners).Error; err != nil {
		return nil, err
	}

	decided := func() *gorm.DB {
		return db.Model(&models.Contest{}).Where("winner_email IS NOT NULL AND winner_email <> ''")
	}
	if err := decided().Select("COALESCE(SUM(prize_money), 0)").Scan(&stats.TotalPrizeMoney).Error; err != nil {
		return nil, err
	}

	var recent []models.Contest
	if err := decided().Order("winner_declared_at DESC").Limit(RecentWinnersLimit).Find(&recent).Error; err != nil {
		return nil, err
	}
	for _, c := range recent {
		stats.RecentWinners = append(stats.RecentWinners, RecentWinner{
			ContestID:        c.ID,
			ContestName:      c.Name,
			ContestType:      c.Type,
			WinnerName:       deref(c.WinnerName),
			WinnerPhoto:      deref(c.WinnerPhoto),
			PrizeMoney:       c.PrizeMoney,
			WinnerDeclaredAt: c.WinnerDeclaredAt,
		})
	}
	return stats, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
