package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TopicAll receives every published event
const TopicAll = "all"

// CategoryTopic is the topic of one forum category
func CategoryTopic(category string) string {
	return "category:" + category
}

// Event is pushed to feed subscribers
type Event struct {
	// Type of event, e.g. "post_created"
	Type string `json:"type"`

	// Topic the event was published on
	Topic string `json:"topic"`

	Payload interface{} `json:"payload"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of subscribers and fans events out to them
type Hub struct {
	// Registered clients organized by topic
	clients map[string]map[*Client]bool

	// Events waiting to be delivered
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run has returned
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Register hands client to the running hub. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client; after the hub stopped it is a no-op since every
// client was already disconnected.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.topic]; !ok {
		h.clients[client.topic] = make(map[*Client]bool)
	}
	h.clients[client.topic][client] = true

	h.logger.Info().
		Str("topic", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Feed client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.topic]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)

	// If no more clients on this topic, clean up
	if len(clients) == 0 {
		delete(h.clients, client.topic)
	}

	h.logger.Info().
		Str("topic", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Feed client unregistered")
}

// broadcastEvent delivers event to the subscribers of its topic. Clients whose
// send buffer is full are dropped.
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("topic", event.Topic).Msg("Failed to marshal feed event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[event.Topic]
	var slow []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	for _, client := range slow {
		h.logger.Warn().Str("topic", event.Topic).Msg("Dropping slow feed client")
		h.removeLocked(client)
	}

	h.logger.Debug().
		Str("topic", event.Topic).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Feed event broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for each topic. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Publish(topics []string, eventType string, payload interface{}) {
	now := time.Now().UTC()
	for _, topic := range topics {
		event := &Event{Type: eventType, Topic: topic, Payload: payload, Timestamp: now}
		select {
		case h.broadcast <- event:
		default:
			h.logger.Warn().Str("topic", topic).Str("type", eventType).Msg("Feed queue full, event dropped")
		}
	}
}

// ClientsCount returns the number of subscribers of topic
func (h *Hub) ClientsCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
