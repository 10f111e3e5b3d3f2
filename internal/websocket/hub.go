package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/models"
)

type EventType string

const (
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
	EventPing       EventType = "ping"
	EventPong       EventType = "pong"

	// Client -> server room control.
	EventSubscribe   EventType = "subscribe"
	EventUnsubscribe EventType = "unsubscribe"

	// Server -> client chat fan-out.
	EventChatMessage   EventType = "chat_message"
	EventChatEdited    EventType = "chat_message_edited"
	EventChatDeleted   EventType = "chat_message_deleted"
	EventChatReaction  EventType = "chat_reaction"
	EventChatModerated EventType = "chat_message_moderated"

	EventError EventType = "error"
)

// Event is the wire format in both directions. TokenAddress names the chat
// room; Data carries the event payload.
type Event struct {
	Type         EventType       `json:"type"`
	TokenAddress models.Address  `json:"tokenAddress,omitempty"`
	UserID       uuid.UUID       `json:"userId,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Hub fans chat events out to clients subscribed per token address. One
// user may hold several connections.
type Hub struct {
	clients     map[uuid.UUID]*Client
	userClients map[uuid.UUID]map[uuid.UUID]*Client
	rooms       map[models.Address]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomBroadcast

	mu sync.RWMutex

	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

type roomBroadcast struct {
	room    models.Address
	payload []byte
}

func NewHub(log *logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:       make(map[models.Address]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *roomBroadcast, 64),
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case bm := <-h.broadcast:
			h.sendToRoom(bm.room, bm.payload)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.userClients = make(map[uuid.UUID]map[uuid.UUID]*Client)
	h.rooms = make(map[models.Address]map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	h.log.Debug().
		Str("client", client.ID.String()).
		Str("user", client.UserID.String()).
		Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for room := range client.Rooms {
		h.removeFromRoomLocked(client, room)
	}
	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}
	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Debug().
		Str("client", client.ID.String()).
		Str("user", client.UserID.String()).
		Msg("client unregistered")
}

// Subscribe adds the client to a token's chat room.
func (h *Hub) Subscribe(client *Client, room models.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[room][client.ID] = client

	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()
}

// Unsubscribe removes the client from a token's chat room.
func (h *Hub) Unsubscribe(client *Client, room models.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(client, room)
}

func (h *Hub) removeFromRoomLocked(client *Client, room models.Address) {
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}

	client.mu.Lock()
	delete(client.Rooms, room)
	client.mu.Unlock()
}

// BroadcastToRoom queues an event for every subscriber of a token room.
// Safe to call from request handlers.
func (h *Hub) BroadcastToRoom(room models.Address, eventType EventType, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("broadcast: marshal payload")
		return
	}
	event := Event{
		Type:         eventType,
		TokenAddress: room,
		Data:         payload,
		Timestamp:    time.Now(),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("broadcast: marshal event")
		return
	}

	select {
	case h.broadcast <- &roomBroadcast{room: room, payload: raw}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) sendToRoom(room models.Address, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[room] {
		select {
		case client.Send <- payload:
		default:
			h.log.Warn().Str("client", client.ID.String()).Msg("send queue full, dropping event")
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	raw, err := json.Marshal(Event{Type: EventPing, Timestamp: time.Now()})
	if err != nil {
		return
	}
	for _, client := range h.clients {
		select {
		case client.Send <- raw:
		default:
		}
	}
}

// RoomSubscribers returns how many distinct users watch a token room.
func (h *Hub) RoomSubscribers(room models.Address) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make(map[uuid.UUID]bool)
	for _, client := range h.rooms[room] {
		users[client.UserID] = true
	}
	return len(users)
}

// OnlineUsers returns the ids of users with at least one open connection.
func (h *Hub) OnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}
