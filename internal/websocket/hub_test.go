package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/models"
)

const roomAddr = models.Address("0x1111111111111111111111111111111111111111")

func newTestClient(hub *Hub) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Send:   make(chan []byte, 8),
		Rooms:  make(map[models.Address]bool),
		Hub:    hub,
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := newTestClient(hub)

	hub.Subscribe(c, roomAddr)
	assert.True(t, c.IsSubscribed(roomAddr))
	assert.Equal(t, 1, hub.RoomSubscribers(roomAddr))

	hub.Unsubscribe(c, roomAddr)
	assert.False(t, c.IsSubscribed(roomAddr))
	assert.Equal(t, 0, hub.RoomSubscribers(roomAddr))
}

func TestRoomSubscribersCountsUsersNotConnections(t *testing.T) {
	hub := NewHub(logger.Nop())

	a := newTestClient(hub)
	b := newTestClient(hub)
	b.UserID = a.UserID // second connection of the same user

	hub.Subscribe(a, roomAddr)
	hub.Subscribe(b, roomAddr)
	assert.Equal(t, 1, hub.RoomSubscribers(roomAddr))
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub(logger.Nop())
	go hub.Run()
	defer hub.Stop()

	in := newTestClient(hub)
	out := newTestClient(hub)
	hub.Subscribe(in, roomAddr)

	hub.BroadcastToRoom(roomAddr, EventChatMessage, map[string]string{"message": "gm"})

	select {
	case raw := <-in.Send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventChatMessage, event.Type)
		assert.Equal(t, roomAddr, event.TokenAddress)
		assert.Contains(t, string(event.Data), "gm")
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-out.Send:
		t.Fatal("non-subscriber received the event")
	case <-time.After(50 * time.Millisecond):
	}
}
