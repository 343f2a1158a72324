package realtime

import (
	"context"
	"sync"
	"time"

	"contesthub/metrics"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Contest event types
const (
	ParticipantJoined = "participant_joined"
	StatusChanged     = "status_changed"
	WinnerDeclared    = "winner_declared"
	ContestUpdated    = "contest_updated"
	ContestDeleted    = "contest_deleted"
)

const writeTimeout = 5 * time.Second

// Event is pushed to every client watching ContestID
type Event struct {
	ContestID string      `json:"contestId"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publisher broadcasts contest events
type Publisher interface {
	Publish(event Event)
}

// Hub fans contest events out to the websocket clients of each contest
type Hub struct {
	mu        sync.Mutex
	clients   map[string]map[*websocket.Conn]bool
	broadcast chan Event
	write     func(conn *websocket.Conn, event Event) error
}

func NewHub(buffer int) *Hub {
	return &Hub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan Event, buffer),
		write:     writeEvent,
	}
}

func writeEvent(conn *websocket.Conn, event Event) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(event)
}

// Register adds a client to a contest
func (h *Hub) Register(contestID string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[contestID] == nil {
		h.clients[contestID] = make(map[*websocket.Conn]bool)
	}
	h.clients[contestID][conn] = true
	h.mu.Unlock()
	metrics.RealtimeClients.Inc()
}

// Unregister removes a client from a contest. Removing an unknown client is a no-op.
func (h *Hub) Unregister(contestID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(contestID, conn)
}

func (h *Hub) remove(contestID string, conn *websocket.Conn) {
	clients, exists := h.clients[contestID]
	if !exists || !clients[conn] {
		return
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(h.clients, contestID)
	}
	metrics.RealtimeClients.Dec()
}

// Publish queues event for delivery. Events are dropped when the queue is full.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
		log.WithFields(log.Fields{"contest": event.ContestID, "type": event.Type}).Warn("Realtime queue full, dropping event")
	}
}

// Run delivers queued events until ctx is done, then closes every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// deliver writes outside the lock; Run is the only writer.
func (h *Hub) deliver(event Event) {
	h.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(h.clients[event.ContestID]))
	for client := range h.clients[event.ContestID] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := h.write(client, event); err != nil {
			log.WithError(err).Warn("WebSocket write error")
			client.Close()
			h.Unregister(event.ContestID, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for contestID, clients := range h.clients {
		for client := range clients {
			client.Close()
			h.remove(contestID, client)
		}
	}
}

// ClientCount returns the number of clients watching contestID
func (h *Hub) ClientCount(contestID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[contestID])
}
