package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// deadClient has no reader on its send channel, so every push takes the
// drop path.
func deadClient(hub *Hub, id uint, role string) *Client {
	return &Client{ID: id, Role: role, Send: make(chan []byte), Hub: hub}
}

func TestBroadcastToUserDropsDeadClients(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 50; i++ {
		hub.clients[deadClient(hub, 7, "CLIENT")] = true
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				hub.BroadcastToUser(7, []byte("ping"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.GetConnectedClients())
}

func TestBroadcastToRoleDropsDeadClients(t *testing.T) {
	hub := NewHub()
	hub.clients[deadClient(hub, 1, "MECHANIC")] = true
	hub.clients[deadClient(hub, 2, "CLIENT")] = true

	hub.BroadcastToRole("MECHANIC", []byte("ping"))

	// Only the mechanic was targeted and dropped.
	assert.Equal(t, 1, hub.GetConnectedClients())
}

func TestBroadcastToUserDeliversToLiveClient(t *testing.T) {
	hub := NewHub()
	live := &Client{ID: 9, Role: "CLIENT", Send: make(chan []byte, 1), Hub: hub}
	hub.clients[live] = true

	hub.BroadcastToUser(9, []byte("hello"))

	assert.Equal(t, 1, hub.GetConnectedClients())
	assert.Equal(t, []byte("hello"), <-live.Send)
}
