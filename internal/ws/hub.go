package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/logging"
)

// Client is one browser tab's websocket connection.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// Hub fans bus events out to connected clients. Events carrying a user id
// go to that user's tabs only; events without one go to everyone, which is
// how contest updates reach every open leaderboard.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	bus        *common.EventBus
}

func NewHub(bus *common.EventBus) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		bus:        bus,
	}
}

// Run owns the client set; all registration and delivery goes through
// this goroutine.
func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe(
		common.TopicVideoUpdate,
		common.TopicContestUpdate,
		common.TopicSessionExpired,
	)
	defer unsubscribe()

	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			logging.Debug("WebSocket client registered", "user_id", client.UserID)

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logging.Debug("WebSocket client unregistered", "user_id", client.UserID)
			}

		case event, ok := <-events:
			if !ok {
				return
			}
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event common.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Warn("Failed to marshal event for websocket delivery", "topic", string(event.Topic), "error", err.Error())
		return
	}

	for client := range h.clients {
		if event.UserID != "" && client.UserID != event.UserID {
			continue
		}
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}
