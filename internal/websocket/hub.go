package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
)

// Hub maintains the set of connected dashboard clients and fans engine
// events out to them. Each client carries its own event-type filter.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events to fan out
	events chan types.Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	// Logger
	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		events:     make(chan types.Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// AttachBus subscribes the hub to every engine event type. Returns the
// subscription id for teardown.
func (h *Hub) AttachBus(eventBus *bus.Bus) string {
	return eventBus.Subscribe(func(ev types.Event) {
		select {
		case h.events <- ev:
		default:
			h.logger.Warn().Str("type", string(ev.Type)).Msg("hub event buffer full, dropping")
		}
	}, types.AllEventTypes...)
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", h.ClientCount()).
				Msg("dashboard client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("dashboard client disconnected")
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.broadcastEvent(ev)
		}
	}
}

// Publish hands an event to the hub for fan-out
func (h *Hub) Publish(ev types.Event) {
	h.events <- ev
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastEvent marshals the event once and sends it to every client whose
// filter accepts it.
func (h *Hub) broadcastEvent(ev types.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to marshal event")
		return
	}

	// Full lock: slow clients are removed from the map mid-broadcast
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wantsEvent(ev.Type) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}
