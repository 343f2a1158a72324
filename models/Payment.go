package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records one verified checkout session
type Payment struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"_id"`
	SessionID     string    `gorm:"type:varchar(255);not null;index" json:"sessionId"`
	ContestID     string    `gorm:"type:varchar(36);not null;index" json:"contestId"`
	ContestName   string    `gorm:"type:varchar(255)" json:"contestName"`
	UserEmail     string    `gorm:"type:varchar(255);not null;index" json:"userEmail"`
	UserName      string    `gorm:"type:varchar(255)" json:"userName"`
	Amount        float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string    `gorm:"type:varchar(10);not null" json:"currency"`
	PaymentStatus string    `gorm:"type:varchar(30);not null" json:"paymentStatus"`
	PaidAt        time.Time `json:"paidAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
