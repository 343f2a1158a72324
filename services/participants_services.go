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

// Registrant is the user joining a contest
type Registrant struct {
	Email string
	Name  string
	Photo string
}

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

// Register adds the user to a free, approved contest and bumps the contest's participant counter.
// It returns created=false with the existing row when the user is already registered.
// Contests with an entry fee are joined through PaymentService.VerifyCheckout.
func (s *ParticipantService) Register(ctx context.Context, contestID string, user Registrant) (*models.Participant, bool, error) {
	defer metrics.RecordDBOperation("register", "participants", time.Now())

	var (
		participant *models.Participant
		created     bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contest, err := findContest(tx, contestID)
		if err != nil {
			return err
		}
		existing, err := findRegistration(tx, contestID, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			participant = existing
			return nil
		}
		if contest.Status != models.ContestApproved {
			return ErrContestClosed
		}
		if ToMinorUnits(contest.Price) > 0 {
			return ErrPaymentRequired
		}

		participant = &models.Participant{
			ContestID:   contest.ID,
			ContestName: contest.Name,
			UserEmail:   strings.ToLower(user.Email),
			UserName:    user.Name,
			UserPhoto:   user.Photo,
		}
		if err := insertParticipant(tx, participant); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.Registrations.WithLabelValues("direct").Inc()
	}
	return participant, created, nil
}

// insertParticipant creates the row and increments the parent contest's counter
func insertParticipant(tx *gorm.DB, participant *models.Participant) error {
	if err := tx.Create(participant).Error; err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	if err := tx.Model(&models.Contest{}).
		Where("id = ?", participant.ContestID).
		UpdateColumn("participants_count", gorm.Expr("participants_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment participants count: %w", err)
	}
	return nil
}

// findRegistration returns the participant row for (contestID, email), or nil
func findRegistration(db *gorm.DB, contestID, email string) (*models.Participant, error) {
	var participant models.Participant
	err := db.Where("contest_id = ? AND user_email = ?", contestID, strings.ToLower(email)).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// CheckRegistration returns the user's participant row for the contest, or nil
func (s *ParticipantService) CheckRegistration(ctx context.Context, contestID, email string) (*models.Participant, error) {
	defer metrics.RecordDBOperation("check", "participants", time.Now())
	return findRegistration(s.db.WithContext(ctx), contestID, email)
}

// ListByUser returns every registration of the user, newest first
func (s *ParticipantService) ListByUser(ctx context.Context, email string) ([]models.Participant, error) {
	defer metrics.RecordDBOperation("list_by_user", "participants", time.Now())

	participants := []models.Participant{}
	err := s.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// SubmitTask stores the submitted work on the participant row owned by email
func (s *ParticipantService) SubmitTask(ctx context.Context, participantID, email, task string) (*models.Participant, error) {
	defer metrics.RecordDBOperation("submit", "participants", time.Now())

	db := s.db.WithContext(ctx)
	var participant models.Participant
	if err := db.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(participant.UserEmail, email) {
		return nil, ErrNotOwner
	}

	now := time.Now().UTC()
	if err := db.Model(&participant).Updates(map[string]interface{}{
		"submitted_task": task,
		"submitted_at":   now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}
	participant.SubmittedTask = &task
	participant.SubmittedAt = &now
	return &participant, nil
}

// ListSubmissions returns the participants of a contest who submitted work
func (s *ParticipantService) ListSubmissions(ctx context.Context, contestID string) ([]models.Participant, error) {
	defer metrics.RecordDBOperation("list_submissions", "participants", time.Now())

	participants := []models.Participant{}
	err := s.db.WithContext(ctx).
		Where("contest_id = ? AND submitted_task IS NOT NULL", contestID).
		Order("submitted_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListWinsByUser returns the user's winning participant rows, most recent win first
func (s *ParticipantService) ListWinsByUser(ctx context.Context, email string) ([]models.Participant, error) {
	defer metrics.RecordDBOperation("list_wins", "participants", time.Now())

	participants := []models.Participant{}
	err := s.db.WithContext(ctx).
		Where("user_email = ? AND is_winner = ?", strings.ToLower(email), true).
		Order("won_at DESC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}
