package contests

import (
	"contesthub/middleware"
	"contesthub/models"
	"contesthub/realtime"
	"contesthub/services"
)

// Error messages constants
const (
	ErrContestNotFound       = "Contest not found"
	ErrParticipantNotFound   = "Winner is not a participant of this contest"
	ErrNotOwner              = "You can only manage your own contests"
	ErrInvalidStatus         = "Invalid status"
	ErrInvalidAmount         = "Price and prize money must not be negative"
	ErrWinnerAlreadyDeclared = "Winner already declared"
	ErrFailedToGetContests   = "Failed to get contests"
	ErrFailedToCreateContest = "Failed to create contest"
	ErrFailedToUpdateContest = "Failed to update contest"
	ErrFailedToDeleteContest = "Failed to delete contest"
	ErrFailedToDeclareWinner = "Failed to declare winner"
)

// SetStatusRequest is the body of the moderation endpoint
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DeleteResult is the body returned after a delete
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// WinnerResult is the body returned after a winner is declared
type WinnerResult struct {
	Contest     *models.Contest     `json:"contest"`
	Participant *models.Participant `json:"participant"`
}

type Handler struct {
	contests *services.ContestService
	roles    middleware.RoleLookup
	events   *realtime.Hub
	notifier services.WinnerNotifier
}

func NewHandler(contests *services.ContestService, roles middleware.RoleLookup, events *realtime.Hub, notifier services.WinnerNotifier) *Handler {
	return &Handler{contests: contests, roles: roles, events: events, notifier: notifier}
}
