package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contesthub/metrics"
	"contesthub/models"

	"gorm.io/gorm"
)

const (
	PopularLimit = 6
	// AllTypes disables the type filter when browsing
	AllTypes = "all"
)

// Actor is the authenticated caller of a contest operation along with its stored role
type Actor struct {
	Email string
	Role  models.Role
}

// CanManage reports whether the actor may edit, delete or judge contest
func (a Actor) CanManage(contest *models.Contest) bool {
	return a.Role == models.RoleAdmin || strings.EqualFold(a.Email, contest.CreatorEmail)
}

// ContestInput is the payload of a new contest
type ContestInput struct {
	Name            string     `json:"name" binding:"required"`
	Type            string     `json:"type" binding:"required"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	TaskInstruction string     `json:"taskInstruction"`
	Price           float64    `json:"price"`
	PrizeMoney      float64    `json:"prizeMoney"`
	Deadline        *time.Time `json:"deadline"`
}

// ContestUpdate lists the contest fields an editor may change
type ContestUpdate struct {
	Name            *string    `json:"name"`
	Type            *string    `json:"type"`
	Description     *string    `json:"description"`
	Image           *string    `json:"image"`
	TaskInstruction *string    `json:"taskInstruction"`
	Price           *float64   `json:"price"`
	PrizeMoney      *float64   `json:"prizeMoney"`
	Deadline        *time.Time `json:"deadline"`
}

func (u ContestUpdate) fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Type != nil {
		fields["type"] = strings.TrimSpace(*u.Type)
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	if u.TaskInstruction != nil {
		fields["task_instruction"] = *u.TaskInstruction
	}
	if u.Price != nil {
		if *u.Price < 0 {
			return nil, ErrInvalidAmount
		}
		fields["price"] = *u.Price
	}
	if u.PrizeMoney != nil {
		if *u.PrizeMoney < 0 {
			return nil, ErrInvalidAmount
		}
		fields["prize_money"] = *u.PrizeMoney
	}
	if u.Deadline != nil {
		fields["deadline"] = *u.Deadline
	}
	return fields, nil
}

// Winner identifies the participant being declared winner
type Winner struct {
	Email string `json:"winnerEmail" binding:"required,email"`
	Name  string `json:"winnerName"`
	Photo string `json:"winnerPhoto"`
}

// ContestList is one page of contests
type ContestList struct {
	Contests   []models.Contest `json:"contests"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

type ContestService struct {
	db *gorm.DB
}

func NewContestService(db *gorm.DB) *ContestService {
	return &ContestService{db: db}
}

// Create stores a new contest as pending with no participants
func (s *ContestService) Create(ctx context.Context, input ContestInput, creatorEmail, creatorName string) (*models.Contest, error) {
	defer metrics.RecordDBOperation("insert", "contests", time.Now())

	if input.Price < 0 || input.PrizeMoney < 0 {
		return nil, ErrInvalidAmount
	}
	contest := models.Contest{
		Name:              strings.TrimSpace(input.Name),
		Type:              strings.TrimSpace(input.Type),
		Description:       input.Description,
		Image:             input.Image,
		TaskInstruction:   input.TaskInstruction,
		Price:             input.Price,
		PrizeMoney:        input.PrizeMoney,
		Deadline:          input.Deadline,
		CreatorEmail:      strings.ToLower(creatorEmail),
		CreatorName:       creatorName,
		Status:            models.ContestPending,
		ParticipantsCount: 0,
	}
	if err := s.db.WithContext(ctx).Create(&contest).Error; err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}
	return &contest, nil
}

// Browse lists approved contests, optionally filtered by exact type and by name substring
func (s *ContestService) Browse(ctx context.Context, contestType, search string) ([]models.Contest, error) {
	defer metrics.RecordDBOperation("browse", "contests", time.Now())

	query := s.db.WithContext(ctx).Where("status = ?", models.ContestApproved)
	if contestType = strings.TrimSpace(contestType); contestType != "" && !strings.EqualFold(contestType, AllTypes) {
		query = query.Where("type = ?", contestType)
	}
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(search))
	}

	contests := []models.Contest{}
	if err := query.Order("created_at DESC").Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

// Popular returns the approved contests with the most participants
func (s *ContestService) Popular(ctx context.Context) ([]models.Contest, error) {
	defer metrics.RecordDBOperation("popular", "contests", time.Now())

	contests := []models.Contest{}
	err := s.db.WithContext(ctx).
		Where("status = ?", models.ContestApproved).
		Order("participants_count DESC").
		Order("created_at DESC").
		Limit(PopularLimit).
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// Get returns a contest whatever its status
func (s *ContestService) Get(ctx context.Context, id string) (*models.Contest, error) {
	defer metrics.RecordDBOperation("get", "contests", time.Now())
	return findContest(s.db.WithContext(ctx), id)
}

func findContest(db *gorm.DB, id string) (*models.Contest, error) {
	var contest models.Contest
	if err := db.First(&contest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return &contest, nil
}

// ListByCreator returns every contest created by email, newest first
func (s *ContestService) ListByCreator(ctx context.Context, email string) ([]models.Contest, error) {
	defer metrics.RecordDBOperation("list_by_creator", "contests", time.Now())

	contests := []models.Contest{}
	err := s.db.WithContext(ctx).
		Where("creator_email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// Update applies the allowed fields of update to the contest
func (s *ContestService) Update(ctx context.Context, id string, update ContestUpdate, actor Actor) (*models.Contest, error) {
	defer metrics.RecordDBOperation("update", "contests", time.Now())

	fields, err := update.fields()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	contest, err := findContest(db, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(contest) {
		return nil, ErrNotOwner
	}
	if len(fields) == 0 {
		return contest, nil
	}
	if err := db.Model(contest).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update contest: %w", err)
	}
	return findContest(db, id)
}

// Delete removes the contest. Its participant and payment rows are kept.
func (s *ContestService) Delete(ctx context.Context, id string, actor Actor) error {
	defer metrics.RecordDBOperation("delete", "contests", time.Now())

	db := s.db.WithContext(ctx)
	contest, err := findContest(db, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(contest) {
		return ErrNotOwner
	}
	if err := db.Delete(&models.Contest{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete contest: %w", err)
	}
	return nil
}

// AdminList returns a page of all contests regardless of status
func (s *ContestService) AdminList(ctx context.Context, page Page) (*ContestList, error) {
	defer metrics.RecordDBOperation("admin_list", "contests", time.Now())

	var total int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Contest{}).Count(&total).Error; err != nil {
		return nil, err
	}
	contests := []models.Contest{}
	if err := db.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&contests).Error; err != nil {
		return nil, err
	}
	return &ContestList{
		Contests:   contests,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}

// SetStatus moves a contest to one of the moderation statuses
func (s *ContestService) SetStatus(ctx context.Context, id string, status string) (*models.Contest, error) {
	defer metrics.RecordDBOperation("set_status", "contests", time.Now())

	parsed, ok := models.ParseContestStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	db := s.db.WithContext(ctx)
	contest, err := findContest(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(contest).Update("status", parsed).Error; err != nil {
		return nil, fmt.Errorf("failed to update contest status: %w", err)
	}
	contest.Status = parsed
	return contest, nil
}

// DeclareWinner records the winner on the contest and flags the matching participant.
// Both writes share one transaction.
func (s *ContestService) DeclareWinner(ctx context.Context, id string, winner Winner, actor Actor) (*models.Contest, *models.Participant, error) {
	defer metrics.RecordDBOperation("declare_winner", "contests", time.Now())

	winnerEmail := strings.ToLower(strings.TrimSpace(winner.Email))
	var (
		contest     *models.Contest
		participant models.Participant
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		contest, err = findContest(tx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(contest) {
			return ErrNotOwner
		}
		if contest.HasWinner() {
			return ErrWinnerAlreadyDeclared
		}

		if err := tx.Where("contest_id = ? AND user_email = ?", id, winnerEmail).First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		name := winner.Name
		if name == "" {
			name = participant.UserName
		}
		photo := winner.Photo
		if photo == "" {
			photo = participant.UserPhoto
		}
		now := time.Now().UTC()

		if err := tx.Model(contest).Updates(map[string]interface{}{
			"winner_email":       winnerEmail,
			"winner_name":        name,
			"winner_photo":       photo,
			"winner_declared_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to set contest winner: %w", err)
		}

		prize := contest.PrizeMoney
		if err := tx.Model(&participant).Updates(map[string]interface{}{
			"is_winner":   true,
			"won_at":      now,
			"prize_money": prize,
		}).Error; err != nil {
			return fmt.Errorf("failed to flag winning participant: %w", err)
		}

		contest.WinnerEmail = &winnerEmail
		contest.WinnerName = &name
		contest.WinnerPhoto = &photo
		contest.WinnerDeclaredAt = &now
		participant.IsWinner = true
		participant.WonAt = &now
		participant.PrizeMoney = &prize
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	metrics.WinnersDeclared.Inc()
	return contest, &participant, nil
}
