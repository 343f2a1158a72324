package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContestStatus is the moderation state of a contest
type ContestStatus string

const (
	ContestPending  ContestStatus = "pending"
	ContestApproved ContestStatus = "approved"
	ContestRejected ContestStatus = "rejected"
)

// ParseContestStatus returns the status named by s and whether it is recognized
func ParseContestStatus(s string) (ContestStatus, bool) {
	switch st := ContestStatus(s); st {
	case ContestPending, ContestApproved, ContestRejected:
		return st, true
	}
	return "", false
}

// Contest is a creator-authored competition with an entry price and a prize
type Contest struct {
	ID                string        `gorm:"type:varchar(36);primaryKey" json:"_id"`
	Name              string        `gorm:"type:varchar(255);not null;index" json:"name"`
	Type              string        `gorm:"type:varchar(100);index" json:"type"`
	Description       string        `gorm:"type:text" json:"description"`
	Image             string        `gorm:"type:text" json:"image"`
	TaskInstruction   string        `gorm:"type:text" json:"taskInstruction"`
	Price             float64       `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	PrizeMoney        float64       `gorm:"type:numeric(12,2);not null;default:0" json:"prizeMoney"`
	Deadline          *time.Time    `json:"deadline,omitempty"`
	CreatorEmail      string        `gorm:"type:varchar(255);not null;index" json:"creatorEmail"`
	CreatorName       string        `gorm:"type:varchar(255)" json:"creatorName"`
	Status            ContestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ParticipantsCount int           `gorm:"not null;default:0" json:"participantsCount"`
	WinnerEmail       *string       `gorm:"type:varchar(255)" json:"winnerEmail,omitempty"`
	WinnerName        *string       `gorm:"type:varchar(255)" json:"winnerName,omitempty"`
	WinnerPhoto       *string       `gorm:"type:text" json:"winnerPhoto,omitempty"`
	WinnerDeclaredAt  *time.Time    `gorm:"index" json:"winnerDeclaredAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func (c *Contest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// HasWinner reports whether a winner has been declared
func (c *Contest) HasWinner() bool {
	return c.WinnerEmail != nil && *c.WinnerEmail != ""
}
