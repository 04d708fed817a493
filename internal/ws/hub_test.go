package ws

import (
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, customerID string) *Client {
	return &Client{
		hub:        hub,
		customerID: customerID,
		send:       make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, "C1")

	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms["C1"] == nil {
		t.Fatal("customer room not created")
	}
	if !hub.rooms["C1"][client] {
		t.Fatal("client not registered in customer room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, "C1")

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	// Room should be cleaned up when empty
	if hub.rooms["C1"] != nil {
		t.Fatal("customer room not cleaned up after last client unregistered")
	}
}

func TestBroadcastToSingleCustomer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, "C1")
	client2 := mockClient(hub, "C2")

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	payload, _ := json.Marshal(map[string]string{"history": "2024-01-01"})
	hub.BroadcastToCustomer("C1", Event{Type: "rollup.updated", Payload: payload})

	select {
	case msg := <-client1.send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != "rollup.updated" {
			t.Errorf("event type: got %q, want %q", ev.Type, "rollup.updated")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client1 did not receive the event")
	}

	select {
	case <-client2.send:
		t.Fatal("client2 should not receive another customer's event")
	case <-time.After(50 * time.Millisecond):
	}
}
