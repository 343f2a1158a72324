package participants

import (
	"errors"
	"net/http"
	"strings"

	"contesthub/middleware"
	"contesthub/models"
	"contesthub/realtime"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrContestNotFound):
		response.Error(c, http.StatusNotFound, ErrContestNotFound)
	case errors.Is(err, services.ErrParticipantNotFound):
		response.Error(c, http.StatusNotFound, ErrParticipantNotFound)
	case errors.Is(err, services.ErrNotOwner):
		response.Error(c, http.StatusForbidden, ErrNotOwner)
	case errors.Is(err, services.ErrContestClosed):
		response.Error(c, http.StatusBadRequest, ErrContestClosed)
	case errors.Is(err, services.ErrPaymentRequired):
		response.Error(c, http.StatusBadRequest, ErrPaymentRequired)
	default:
		log.WithError(err).Error(fallback)
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

// RegisterParticipant registers the caller for a contest
// @Summary Register for contest
// @Description Free, approved contests only; paid contests go through /create-payment-intent. Registering twice is a no-op that returns insertedId null
// @Tags Participants
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "Registration"
// @Success 200 {object} response.InsertResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /participants [post]
// @Security Bearer
func (h *Handler) RegisterParticipant(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := middleware.GetIdentity(c)
	registrant := services.Registrant{Email: identity.Email, Name: req.UserName, Photo: req.UserPhoto}
	if registrant.Name == "" {
		registrant.Name = identity.Name
	}
	if registrant.Photo == "" {
		registrant.Photo = identity.Picture
	}

	participant, created, err := h.participants.Register(c.Request.Context(), req.ContestID, registrant)
	if err != nil {
		writeError(c, err, ErrFailedToRegister)
		return
	}
	if !created {
		response.NotInserted(c, ErrAlreadyRegistered)
		return
	}
	h.events.Publish(realtime.Event{ContestID: participant.ContestID, Type: realtime.ParticipantJoined, Payload: participant})
	response.Inserted(c, http.StatusOK, participant.ID)
}

// CheckRegistration tells whether a user is registered for a contest
// @Summary Check registration
// @Description email defaults to the caller. Only admins may check other users.
// @Tags Participants
// @Produce json
// @Param contestId query string true "Contest ID"
// @Param email query string false "User email"
// @Success 200 {object} CheckResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /participants/check [get]
// @Security Bearer
func (h *Handler) CheckRegistration(c *gin.Context) {
	contestID := c.Query("contestId")
	if contestID == "" {
		response.Error(c, http.StatusBadRequest, "contestId is required")
		return
	}

	identity := middleware.GetIdentity(c)
	email := c.DefaultQuery("email", identity.Email)
	if !strings.EqualFold(email, identity.Email) {
		role, err := middleware.CallerRole(c, h.roles)
		if err != nil || role != models.RoleAdmin {
			response.Error(c, http.StatusForbidden, middleware.ErrForbidden)
			return
		}
	}

	participant, err := h.participants.CheckRegistration(c.Request.Context(), contestID, email)
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return
	}
	c.JSON(http.StatusOK, CheckResponse{Registered: participant != nil, Participant: participant})
}

// GetUserParticipations lists the contests a user registered for
// @Summary List registrations
// @Tags Participants
// @Produce json
// @Param email path string true "User email"
// @Success 200 {array} models.Participant
// @Failure 403 {object} map[string]string
// @Router /participants/{email} [get]
// @Security Bearer
func (h *Handler) GetUserParticipations(c *gin.Context) {
	participants, err := h.participants.ListByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// SubmitTask stores the caller's submission on their participant row
// @Summary Submit task
// @Tags Participants
// @Accept json
// @Produce json
// @Param id path string true "Participant ID"
// @Param submission body SubmitRequest true "Submission"
// @Success 200 {object} models.Participant
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /participants/{id}/submit [patch]
// @Security Bearer
func (h *Handler) SubmitTask(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := middleware.GetIdentity(c)
	participant, err := h.participants.SubmitTask(c.Request.Context(), c.Param("id"), identity.Email, req.SubmittedTask)
	if err != nil {
		writeError(c, err, ErrFailedToSubmitTask)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// GetUserWins lists the contests a user won
// @Summary List wins
// @Tags Participants
// @Produce json
// @Param email path string true "User email"
// @Success 200 {array} models.Participant
// @Failure 403 {object} map[string]string
// @Router /winners/{email} [get]
// @Security Bearer
func (h *Handler) GetUserWins(c *gin.Context) {
	wins, err := h.participants.ListWinsByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return
	}
	c.JSON(http.StatusOK, wins)
}
