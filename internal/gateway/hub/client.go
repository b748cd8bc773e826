package hub

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 256
)

// Client represents one WebSocket subscriber. The gateway feed is
// broadcast-only; inbound frames beyond pings are read and discarded to
// keep the connection's control flow alive.
type Client struct {
	ID   string
	conn *websocket.Conn
	Send chan models.Envelope // Exported for hub access
	hub  Registry
	log  *logrus.Entry

	mu            sync.Mutex
	messagesSent  int64
	lastMessageAt time.Time
}

// Registry is the hub interface clients unregister through
type Registry interface {
	Unregister(client *Client)
}

// NewClient creates a new client instance
func NewClient(id string, conn *websocket.Conn, hub Registry) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		Send: make(chan models.Envelope, sendBufferSize),
		hub:  hub,
		log:  logging.Component("gateway").WithField("client_id", id),
	}
}

// ReadPump drains the connection and handles pong deadlines
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.log.WithError(err).Debug("Unexpected close")
				}
				return
			}
		}
	}
}

// WritePump pumps envelopes from the hub to the WebSocket connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case env, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(env); err != nil {
				c.log.WithError(err).Debug("Write error")
				return
			}

			c.updateSent()

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend sends an envelope to the client (non-blocking).
// Returns false when the buffer is full.
func (c *Client) TrySend(env models.Envelope) bool {
	select {
	case c.Send <- env:
		return true
	default:
		return false
	}
}

func (c *Client) updateSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	c.lastMessageAt = time.Now()
}
