package contests

import (
	"errors"
	"net/http"
	"strconv"

	"contesthub/middleware"
	"contesthub/realtime"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// writeError maps service errors to the {message} envelope
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrContestNotFound):
		response.Error(c, http.StatusNotFound, ErrContestNotFound)
	case errors.Is(err, services.ErrParticipantNotFound):
		response.Error(c, http.StatusNotFound, ErrParticipantNotFound)
	case errors.Is(err, services.ErrNotOwner):
		response.Error(c, http.StatusForbidden, ErrNotOwner)
	case errors.Is(err, services.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, ErrInvalidStatus)
	case errors.Is(err, services.ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, ErrInvalidAmount)
	case errors.Is(err, services.ErrWinnerAlreadyDeclared):
		response.Error(c, http.StatusConflict, ErrWinnerAlreadyDeclared)
	default:
		log.WithError(err).Error(fallback)
		response.Error(c, http.StatusInternalServerError, fallback)
	}
}

// CreateContest creates a pending contest owned by the caller
// @Summary Create contest
// @Description Creator or admin. New contests start pending with no participants.
// @Tags Contests
// @Accept json
// @Produce json
// @Param contest body services.ContestInput true "Contest"
// @Success 201 {object} response.InsertResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /contests [post]
// @Security Bearer
func (h *Handler) CreateContest(c *gin.Context) {
	var input services.ContestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	identity := middleware.GetIdentity(c)
	contest, err := h.contests.Create(c.Request.Context(), input, identity.Email, identity.Name)
	if err != nil {
		writeError(c, err, ErrFailedToCreateContest)
		return
	}
	response.Inserted(c, http.StatusCreated, contest.ID)
}

// BrowseContests lists approved contests
// @Summary Browse contests
// @Tags Contests
// @Produce json
// @Param type query string false "Contest type, or all"
// @Param search query string false "Name search"
// @Success 200 {array} models.Contest
// @Router /contests [get]
func (h *Handler) BrowseContests(c *gin.Context) {
	contests, err := h.contests.Browse(c.Request.Context(), c.Query("type"), c.Query("search"))
	if err != nil {
		writeError(c, err, ErrFailedToGetContests)
		return
	}
	c.JSON(http.StatusOK, contests)
}

// GetPopularContests returns the approved contests with the most participants
// @Summary Popular contests
// @Tags Contests
// @Produce json
// @Success 200 {array} models.Contest
// @Router /contests/popular [get]
func (h *Handler) GetPopularContests(c *gin.Context) {
	contests, err := h.contests.Popular(c.Request.Context())
	if err != nil {
		writeError(c, err, ErrFailedToGetContests)
		return
	}
	c.JSON(http.StatusOK, contests)
}

// GetContest returns one contest
// @Summary Get contest
// @Tags Contests
// @Produce json
// @Param id path string true "Contest ID"
// @Success 200 {object} models.Contest
// @Failure 404 {object} map[string]string
// @Router /contests/{id} [get]
func (h *Handler) GetContest(c *gin.Context) {
	contest, err := h.contests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, ErrFailedToGetContests)
		return
	}
	c.JSON(http.StatusOK, contest)
}

// GetCreatorContests lists the contests created by a user
// @Summary Contests by creator
// @Tags Contests
// @Produce json
// @Param email path string true "Creator email"
// @Success 200 {array} models.Contest
// @Failure 403 {object} map[string]string
// @Router /contests/creator/{email} [get]
// @Security Bearer
func (h *Handler) GetCreatorContests(c *gin.Context) {
	contests, err := h.contests.ListByCreator(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err, ErrFailedToGetContests)
		return
	}
	c.JSON(http.StatusOK, contests)
}

// UpdateContest edits a contest
// @Summary Update contest
// @Description Creators may only edit their own contests
// @Tags Contests
// @Accept json
// @Produce json
// @Param id path string true "Contest ID"
// @Param contest body services.ContestUpdate true "Fields to change"
// @Success 200 {object} models.Contest
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /contests/{id} [patch]
// @Security Bearer
func (h *Handler) UpdateContest(c *gin.Context) {
	var update services.ContestUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	actor, err := middleware.Actor(c, h.roles)
	if err != nil {
		writeError(c, err, ErrFailedToUpdateContest)
		return
	}

	contest, err := h.contests.Update(c.Request.Context(), c.Param("id"), update, actor)
	if err != nil {
		writeError(c, err, ErrFailedToUpdateContest)
		return
	}
	h.events.Publish(realtime.Event{ContestID: contest.ID, Type: realtime.ContestUpdated, Payload: contest})
	c.JSON(http.StatusOK, contest)
}

// DeleteContest removes a contest
// @Summary Delete contest
// @Description Creators may only delete their own contests
// @Tags Contests
// @Produce json
// @Param id path string true "Contest ID"
// @Success 200 {object} DeleteResult
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /contests/{id} [delete]
// @Security Bearer
func (h *Handler) DeleteContest(c *gin.Context) {
	actor, err := middleware.Actor(c, h.roles)
	if err != nil {
		writeError(c, err, ErrFailedToDeleteContest)
		return
	}

	id := c.Param("id")
	if err := h.contests.Delete(c.Request.Context(), id, actor); err != nil {
		writeError(c, err, ErrFailedToDeleteContest)
		return
	}
	h.events.Publish(realtime.Event{ContestID: id, Type: realtime.ContestDeleted})
	c.JSON(http.StatusOK, DeleteResult{Acknowledged: true, DeletedCount: 1})
}

// GetAllContests lists every contest regardless of status
// @Summary List all contests
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.ContestList
// @Failure 403 {object} map[string]string
// @Router /admin/contests [get]
// @Security Bearer
func (h *Handler) GetAllContests(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.contests.AdminList(c.Request.Context(), services.NewPage(page, limit))
	if err != nil {
		writeError(c, err, ErrFailedToGetContests)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateContestStatus approves or rejects a contest
// @Summary Set contest status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Contest ID"
// @Param status body SetStatusRequest true "pending, approved or rejected"
// @Success 200 {object} models.Contest
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/contests/{id}/status [patch]
// @Security Bearer
func (h *Handler) UpdateContestStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	contest, err := h.contests.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err, ErrFailedToUpdateContest)
		return
	}
	h.events.Publish(realtime.Event{ContestID: contest.ID, Type: realtime.StatusChanged, Payload: gin.H{"status": contest.Status}})
	c.JSON(http.StatusOK, contest)
}

// DeclareWinner records the winner of a contest
// @Summary Declare winner
// @Description The winner must be a participant. A contest has at most one winner.
// @Tags Contests
// @Accept json
// @Produce json
// @Param id path string true "Contest ID"
// @Param winner body services.Winner true "Winner"
// @Success 200 {object} WinnerResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /contests/{id}/winner [patch]
// @Security Bearer
func (h *Handler) DeclareWinner(c *gin.Context) {
	var winner services.Winner
	if err := c.ShouldBindJSON(&winner); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	actor, err := middleware.Actor(c, h.roles)
	if err != nil {
		writeError(c, err, ErrFailedToDeclareWinner)
		return
	}

	contest, participant, err := h.contests.DeclareWinner(c.Request.Context(), c.Param("id"), winner, actor)
	if err != nil {
		writeError(c, err, ErrFailedToDeclareWinner)
		return
	}

	h.events.Publish(realtime.Event{ContestID: contest.ID, Type: realtime.WinnerDeclared, Payload: gin.H{
		"winnerEmail": contest.WinnerEmail,
		"winnerName":  contest.WinnerName,
		"winnerPhoto": contest.WinnerPhoto,
	}})
	go func() {
		if err := h.notifier.NotifyWinner(contest, participant); err != nil {
			log.WithError(err).WithField("contest", contest.ID).Warn("Failed to send winner notification")
		}
	}()

	c.JSON(http.StatusOK, WinnerResult{Contest: contest, Participant: participant})
}
