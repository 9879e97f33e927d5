package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Subscriber is the write side of a proctoring connection.
type Subscriber interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	TestID uuid.UUID
	UserID uuid.UUID
	Conn   Subscriber
}

type ActivityEvent struct {
	Type      string    `json:"type"`
	TestID    uuid.UUID `json:"testId"`
	UserID    uuid.UUID `json:"userId"`
	Activity  string    `json:"activity"`
	Timestamp time.Time `json:"timestamp"`
}

const broadcastBuffer = 256

// Hub fans suspicious-activity events out to the teachers watching a test.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	clientsMu  sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan ActivityEvent
	done       chan struct{}
	stopOnce   sync.Once
}

var Proctor = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan ActivityEvent, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.closeAll()
			return
		case client := <-h.Register:
			h.clientsMu.Lock()
			if h.clients[client.TestID] == nil {
				h.clients[client.TestID] = make(map[*Client]struct{})
			}
			h.clients[client.TestID][client] = struct{}{}
			h.clientsMu.Unlock()
			slog.Info("proctor registered", "test_id", client.TestID, "user_id", client.UserID)
		case client := <-h.Unregister:
			h.remove(client)
			slog.Info("proctor unregistered", "test_id", client.TestID, "user_id", client.UserID)
		case event := <-h.Broadcast:
			h.deliver(event)
		}
	}
}

// Join registers client. It returns false once the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client. After the hub has stopped it returns at once.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Publish queues event for delivery. It never blocks a request: when the
// buffer is full the event is dropped, the activity itself is already stored.
func (h *Hub) Publish(event ActivityEvent) {
	if event.Type == "" {
		event.Type = "suspicious_activity"
	}
	select {
	case h.Broadcast <- event:
	default:
		slog.Warn("proctor broadcast buffer full, dropping event", "test_id", event.TestID)
	}
}

func (h *Hub) Subscribers(testID uuid.UUID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[testID])
}

func (h *Hub) deliver(event ActivityEvent) {
	h.clientsMu.RLock()
	targets := make([]*Client, 0, len(h.clients[event.TestID]))
	for client := range h.clients[event.TestID] {
		targets = append(targets, client)
	}
	h.clientsMu.RUnlock()

	for _, client := range targets {
		if err := client.Conn.WriteJSON(event); err != nil {
			slog.Warn("failed to push activity to proctor", "test_id", event.TestID, "user_id", client.UserID, "error", err)
			_ = client.Conn.Close()
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	watchers, ok := h.clients[client.TestID]
	if !ok {
		return
	}
	delete(watchers, client)
	if len(watchers) == 0 {
		delete(h.clients, client.TestID)
	}
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for testID, watchers := range h.clients {
		for client := range watchers {
			_ = client.Conn.Close()
		}
		delete(h.clients, testID)
	}
}
