package hub

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/pkg/models"
)

// Hub maintains the set of active clients and fans pipeline envelopes out
// to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.Envelope
	register   chan *Client
	unregister chan *Client

	log *logrus.Entry

	// Metrics
	totalConnections int64
	totalBroadcasts  int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.Envelope, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logging.Component("hub"),
	}
}

// Run starts the hub's main loop and blocks until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("Hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.broadcast:
			h.broadcastEnvelope(env)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast fans an envelope out to all connected clients
func (h *Hub) Broadcast(env models.Envelope) {
	select {
	case h.broadcast <- env:
	default:
		h.log.Warn("Broadcast buffer full, dropping envelope")
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.log.WithFields(logrus.Fields{
		"client_id": c.ID,
		"total":     len(h.clients),
	}).Info("Client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.log.WithFields(logrus.Fields{
			"client_id": c.ID,
			"total":     len(h.clients),
		}).Info("Client disconnected")
	}
}

func (h *Hub) broadcastEnvelope(env models.Envelope) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(env) {
			// Client buffer full. They're too slow, disconnect them.
			h.log.WithField("client_id", c.ID).Warn("Client buffer full, disconnecting")
			go h.Unregister(c)
		}
	}

	h.metricsMu.Lock()
	h.totalBroadcasts++
	h.metricsMu.Unlock()
}

// shutdown closes every client's send channel
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}

	h.log.Info("Hub stopped")
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns hub counters
func (h *Hub) Metrics() map[string]interface{} {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections,
		"total_broadcasts":  h.totalBroadcasts,
	}
}
