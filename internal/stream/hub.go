// Package stream fans notifications out to connected recipients. Delivery is
// best-effort: a dropped connection loses pushes for the gap and clients
// reconcile by polling the unread endpoints.
package stream

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	recipientClients   = make(map[uuid.UUID]map[*Client]bool)
	recipientClientsMu sync.RWMutex
)

const (
	WriteWait       = 10 * time.Second
	PongWait        = 60 * time.Second
	KeepalivePeriod = 30 * time.Second
	MaxMessageSize  = 512
)

// Client wraps a websocket connection with a write lock. gorilla/websocket
// permits only one concurrent writer per connection, and both the dispatcher
// and the handler's keepalive loop write to the same socket, so every
// outbound frame must go through here.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// WriteJSON sends a JSON frame under the write lock with a fresh deadline.
func (c *Client) WriteJSON(payload interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(payload)
}

// Ping sends a protocol-level ping under the write lock.
func (c *Client) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Register adds a client for a recipient. One recipient may hold several
// open connections (multiple tabs or devices).
func Register(recipientID uuid.UUID, client *Client) {
	recipientClientsMu.Lock()
	if recipientClients[recipientID] == nil {
		recipientClients[recipientID] = make(map[*Client]bool)
	}
	recipientClients[recipientID][client] = true
	recipientClientsMu.Unlock()
}

// Unregister removes a client and drops the recipient's entry once the
// last connection is gone.
func Unregister(recipientID uuid.UUID, client *Client) {
	recipientClientsMu.Lock()

	if clients, exists := recipientClients[recipientID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(recipientClients, recipientID)
		}
	}

	recipientClientsMu.Unlock()
}

// ConnectionCount reports the number of open connections for a recipient.
func ConnectionCount(recipientID uuid.UUID) int {
	recipientClientsMu.RLock()
	defer recipientClientsMu.RUnlock()

	return len(recipientClients[recipientID])
}

// Publish pushes a JSON frame to every open connection of the recipient.
// Failed connections are removed and closed; an offline recipient is not an
// error, they pick the notification up from the list endpoints later.
func Publish(recipientID uuid.UUID, payload interface{}) {
	recipientClientsMu.RLock()
	clients, exists := recipientClients[recipientID]
	if !exists || len(clients) == 0 {
		recipientClientsMu.RUnlock()
		return
	}

	// Copy the clients so the lock is not held while writing
	clientsCopy := make([]*Client, 0, len(clients))
	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	recipientClientsMu.RUnlock()

	for _, client := range clientsCopy {
		if err := client.WriteJSON(payload); err != nil {
			log.Printf("Failed to push to recipient %s: %v", recipientID, err)
			Unregister(recipientID, client)
			client.Close()
		}
	}
}
