package contests

import (
	"net/http"

	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ContestWebSocket streams the events of one contest
// @Summary Contest events
// @Description Websocket of participant_joined, status_changed, winner_declared, contest_updated and contest_deleted events
// @Tags Contests
// @Param id path string true "Contest ID"
// @Success 101
// @Failure 404 {object} map[string]string
// @Router /ws/contests/{id} [get]
func (h *Handler) ContestWebSocket(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := h.contests.Get(c.Request.Context(), contestID); err != nil {
		response.Error(c, http.StatusNotFound, ErrContestNotFound)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	h.events.Register(contestID, conn)
	defer func() {
		h.events.Unregister(contestID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
