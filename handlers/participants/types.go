package participants

import (
	"contesthub/middleware"
	"contesthub/models"
	"contesthub/realtime"
	"contesthub/services"
)

// Error messages constants
const (
	ErrContestNotFound           = "Contest not found"
	ErrParticipantNotFound       = "Participant not found"
	ErrAlreadyRegistered         = "Already registered"
	ErrContestClosed             = "Contest is not open for registration"
	ErrPaymentRequired           = "Contest requires payment"
	ErrNotOwner                  = "You can only access your own registrations and contests"
	ErrFailedToRegister          = "Failed to register participant"
	ErrFailedToGetParticipants   = "Failed to get participants"
	ErrFailedToSubmitTask        = "Failed to submit task"
	ErrFailedToExportSubmissions = "Failed to export submissions"
)

// RegisterRequest is the body of a free registration.
// Name and photo default to the caller's token claims.
type RegisterRequest struct {
	ContestID string `json:"contestId" binding:"required"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
}

// SubmitRequest is the body of a task submission
type SubmitRequest struct {
	SubmittedTask string `json:"submittedTask" binding:"required"`
}

// CheckResponse tells whether a user is registered for a contest
type CheckResponse struct {
	Registered  bool                `json:"registered"`
	Participant *models.Participant `json:"participant"`
}

type Handler struct {
	participants *services.ParticipantService
	contests     *services.ContestService
	roles        middleware.RoleLookup
	events       realtime.Publisher
}

func NewHandler(participants *services.ParticipantService, contests *services.ContestService, roles middleware.RoleLookup, events realtime.Publisher) *Handler {
	return &Handler{participants: participants, contests: contests, roles: roles, events: events}
}
