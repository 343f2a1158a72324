package payments

import (
	"contesthub/middleware"
	"contesthub/models"
	"contesthub/realtime"
	"contesthub/services"
)

// Error messages constants
const (
	ErrContestNotFound       = "Contest not found"
	ErrAlreadyRegistered     = "Already registered"
	ErrNoEntryFee            = "Contest has no entry fee"
	ErrNotOwner              = "Payment session belongs to another user"
	ErrFailedToCreateSession = "Failed to create payment session"
	ErrPaymentNotCompleted   = "Payment not completed"
	ErrVerificationFailed    = "Payment verification failed"
	ErrFailedToGetPayments   = "Failed to get payments"
)

// CheckoutRequest starts a checkout for a contest entry.
// The amount charged is the contest's stored price.
type CheckoutRequest struct {
	ContestID string `json:"contestId" binding:"required"`
}

// CheckoutResponse points the client at the hosted checkout page
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// VerifyRequest confirms a checkout session
type VerifyRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// VerifyResponse is the body of a successful verification
type VerifyResponse struct {
	Success           bool                `json:"success"`
	AlreadyRegistered bool                `json:"alreadyRegistered"`
	Payment           *models.Payment     `json:"payment,omitempty"`
	Participant       *models.Participant `json:"participant"`
}

type Handler struct {
	payments *services.PaymentService
	roles    middleware.RoleLookup
	events   realtime.Publisher
}

func NewHandler(payments *services.PaymentService, roles middleware.RoleLookup, events realtime.Publisher) *Handler {
	return &Handler{payments: payments, roles: roles, events: events}
}
