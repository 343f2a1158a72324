package participants

import (
	"fmt"
	"net/http"

	"contesthub/middleware"
	"contesthub/models"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// managedContest loads the contest in the path and checks the caller may judge it.
// It writes the error response and returns nil when they may not.
func (h *Handler) managedContest(c *gin.Context) *models.Contest {
	actor, err := middleware.Actor(c, h.roles)
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return nil
	}
	contest, err := h.contests.Get(c.Request.Context(), c.Param("contestId"))
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return nil
	}
	if !actor.CanManage(contest) {
		writeError(c, services.ErrNotOwner, ErrFailedToGetParticipants)
		return nil
	}
	return contest
}

// GetSubmissions lists the participants of a contest who submitted a task
// @Summary List submissions
// @Description Creators may only list submissions of their own contests
// @Tags Submissions
// @Produce json
// @Param contestId path string true "Contest ID"
// @Success 200 {array} models.Participant
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /submissions/{contestId} [get]
// @Security Bearer
func (h *Handler) GetSubmissions(c *gin.Context) {
	contest := h.managedContest(c)
	if contest == nil {
		return
	}

	submissions, err := h.participants.ListSubmissions(c.Request.Context(), contest.ID)
	if err != nil {
		writeError(c, err, ErrFailedToGetParticipants)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// ExportSubmissions downloads the submissions of a contest as an Excel workbook
// @Summary Export submissions
// @Tags Submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param contestId path string true "Contest ID"
// @Success 200 {file} file
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /submissions/{contestId}/export [get]
// @Security Bearer
func (h *Handler) ExportSubmissions(c *gin.Context) {
	contest := h.managedContest(c)
	if contest == nil {
		return
	}

	submissions, err := h.participants.ListSubmissions(c.Request.Context(), contest.ID)
	if err != nil {
		writeError(c, err, ErrFailedToExportSubmissions)
		return
	}
	buf, err := services.SubmissionsWorkbook(contest, submissions)
	if err != nil {
		log.WithError(err).WithField("contest", contest.ID).Error("Failed to build submissions workbook")
		response.Error(c, http.StatusInternalServerError, ErrFailedToExportSubmissions)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="submissions-%s.xlsx"`, contest.ID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
