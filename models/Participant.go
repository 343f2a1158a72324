package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant links a user to a contest they registered for.
// (ContestID, UserEmail) is unique; the service checks it before inserting.
type Participant struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"_id"`
	ContestID     string     `gorm:"type:varchar(36);not null;index:idx_participant_contest_user" json:"contestId"`
	ContestName   string     `gorm:"type:varchar(255)" json:"contestName"`
	UserEmail     string     `gorm:"type:varchar(255);not null;index:idx_participant_contest_user;index" json:"userEmail"`
	UserName      string     `gorm:"type:varchar(255)" json:"userName"`
	UserPhoto     string     `gorm:"type:text" json:"userPhoto"`
	SubmittedTask *string    `gorm:"type:text" json:"submittedTask,omitempty"`
	SubmittedAt   *time.Time `json:"submittedAt,omitempty"`
	PaymentID     *string    `gorm:"type:varchar(36)" json:"paymentId,omitempty"`
	IsWinner      bool       `gorm:"not null;default:false;index" json:"isWinner"`
	WonAt         *time.Time `json:"wonAt,omitempty"`
	PrizeMoney    *float64   `gorm:"type:numeric(12,2)" json:"prizeMoney,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
