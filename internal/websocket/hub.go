package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event types pushed to clients
const (
	EventBinUpdate     = "bin_update"
	EventBinAlert      = "bin_alert"
	EventNoticeCreated = "notice_created"
	EventBinCollected  = "bin_collected"
)

// Event is the envelope of every server-pushed message
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (connection ID -> Client)
	clients map[string]*Client

	// Outbound messages
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Message is a payload for every client, or only those with Role when set
type Message struct {
	Role string
	Data []byte
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   Client ID: %s", client.ID)
			log.Printf("   Role: %s", client.UserRole)
			log.Printf("   Total connected clients: %d", total)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED: %s (%s), %d remaining",
					client.ID, client.UserRole, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				if message.Role != "" && client.UserRole != message.Role {
					continue
				}
				select {
				case client.send <- message.Data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, id)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop terminates Run and closes every client's send channel
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event Event) {
	h.enqueue("", event)
}

// BroadcastToRole sends an event to all clients with a specific role
func (h *Hub) BroadcastToRole(role string, event Event) {
	h.enqueue(role, event)
}

func (h *Hub) enqueue(role string, event Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return
	}

	select {
	case h.broadcast <- &Message{Role: role, Data: data}:
	case <-h.done:
	default:
		log.Printf("⚠️ Broadcast queue full, dropping %s event", event.Type)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CountByRole returns the number of connected clients per role
func (h *Hub) CountByRole() map[string]int {
	counts := map[string]int{}
	if h == nil {
		return counts
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		counts[client.UserRole]++
	}
	return counts
}
