package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/crossfun/backend/internal/models"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Client is one websocket connection of one user.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Rooms  map[models.Address]bool
	Hub    *Hub
	mu     sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Rooms:  make(map[models.Address]bool),
		Hub:    hub,
	}
}

// ReadPump consumes inbound events until the connection drops. Only room
// control events are accepted from clients; chat writes go through the
// REST API.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event Event
		if err := c.Conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug().Err(err).Str("client", c.ID.String()).Msg("read error")
			}
			break
		}

		switch event.Type {
		case EventPong:

		case EventSubscribe:
			addr, err := models.ParseAddress(string(event.TokenAddress))
			if err != nil {
				c.SendError(err.Error())
				continue
			}
			c.Hub.Subscribe(c, addr)

		case EventUnsubscribe:
			addr, err := models.ParseAddress(string(event.TokenAddress))
			if err != nil {
				c.SendError(err.Error())
				continue
			}
			c.Hub.Unsubscribe(c, addr)

		default:
			c.SendError(ErrInvalidEvent.Error())
		}
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) SendEvent(eventType EventType, data interface{}) error {
	event := Event{Type: eventType, Timestamp: time.Now()}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		event.Data = payload
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.Send <- raw:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(msg string) {
	c.SendEvent(EventError, map[string]string{"error": msg})
}

func (c *Client) IsSubscribed(room models.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Rooms[room]
}
