package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	wsConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Number of currently bound WebSocket connections",
		},
	)

	wsEventsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_pushed_total",
			Help: "Total number of events pushed to WebSocket clients",
		},
		[]string{"type"},
	)

	wsEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_events_dropped_total",
			Help: "Total number of events dropped due to slow or closed clients",
		},
	)
)

// Hub manages bound WebSocket connections and fans events out per user.
// It is the only shared in-memory structure of the messaging layer: the
// gateway mutates the binding table, the dispatcher reads it.
type Hub struct {
	// Bound clients grouped by user ID
	clients map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Fan-out to a specific user
	broadcast chan *targetedEvent

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

type targetedEvent struct {
	UserID string
	Event  *Event
}

// NewHub creates a new Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *targetedEvent, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Register binds a client to its user's channel
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			wsConnectionsActive.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.userID)
					}
					wsConnectionsActive.Dec()
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			if clients, ok := h.clients[msg.UserID]; ok {
				data, err := json.Marshal(msg.Event)
				if err == nil {
					for client := range clients {
						select {
						case client.send <- data:
							wsEventsPushed.WithLabelValues(msg.Event.Type).Inc()
						default:
							// slow consumer: drop the push and evict the client
							close(client.send)
							delete(clients, client)
							wsConnectionsActive.Dec()
							wsEventsDropped.Inc()
						}
					}
					if len(clients) == 0 {
						delete(h.clients, msg.UserID)
					}
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// HasClients reports whether the user has at least one bound connection
func (h *Hub) HasClients(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendToUser queues an event for every bound connection of a user.
// A user with no bound connections receives nothing; the event is not
// retried or persisted.
func (h *Hub) SendToUser(userID string, event *Event) {
	select {
	case h.broadcast <- &targetedEvent{UserID: userID, Event: event}:
	case <-h.ctx.Done():
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
