package ws

import (
	"encoding/json"
	"sync"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// customerEvent is an internal struct for routing events to one customer's room
type customerEvent struct {
	CustomerID string
	Event      Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Rooms are keyed by customer business key, so a ledger screen showing one
// customer only receives that customer's events.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *customerEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *customerEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.customerID] == nil {
				h.rooms[client.customerID] = make(map[*Client]bool)
			}
			h.rooms[client.customerID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.customerID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.customerID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.CustomerID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.CustomerID], client)
					if len(h.rooms[event.CustomerID]) == 0 {
						delete(h.rooms, event.CustomerID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToCustomer sends an event to all clients watching one customer's
// ledger. This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastToCustomer(customerID string, event Event) {
	h.broadcast <- &customerEvent{
		CustomerID: customerID,
		Event:      event,
	}
}
