package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/trunkcat/fixtures/metrics"
	"github.com/trunkcat/fixtures/models"
)

// Типы сообщений, которые хаб рассылает подписчикам.
const (
	MessageTypeMatchUpdated = "MATCH_UPDATED"
)

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomForStage is the room watchers of one stage's schedule join.
func RoomForStage(stageID string) string {
	return "stage_" + stageID
}

// Hub keeps websocket clients grouped by room and fans messages out to them.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	done    chan struct{}
	rooms   map[string]map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
		metrics:    m,
	}
}

// Run processes registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("client registered",
				slog.String("room", client.Room), slog.String("client_id", client.ID), slog.Int("clients", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, clients := range h.rooms {
				for client := range clients {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Join registers client unless the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.Room]
	if !ok || !clients[client] {
		return
	}
	client.close()
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.Room)
		h.logger.Info("room closed", slog.String("room", client.Room))
		return
	}
	h.logger.Info("client unregistered",
		slog.String("room", client.Room), slog.String("client_id", client.ID), slog.Int("clients", len(clients)))
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
// Clients whose buffer is full are skipped.
func (h *Hub) BroadcastToRoom(roomID string, message WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		h.logger.Debug("no clients to broadcast to", slog.String("room", roomID))
		return
	}

	message.RoomID = roomID
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		if !client.trySend(messageBytes) {
			h.logger.Warn("client send buffer full, skipping", slog.String("room", roomID), slog.String("client_id", client.ID))
		}
	}
	h.metrics.IncBroadcast()
}

// BroadcastMatchUpdate pushes a confirmed match to everyone watching stageID.
func (h *Hub) BroadcastMatchUpdate(stageID string, match models.Match) {
	h.BroadcastToRoom(RoomForStage(stageID), WebSocketMessage{Type: MessageTypeMatchUpdated, Payload: match})
}
