package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/volunhub-dev/volunhub/internal/stream"
	"github.com/volunhub-dev/volunhub/internal/types"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

// NotificationStream upgrades the request to a websocket and registers the
// connection for the authenticated recipient. The first frame is always
// {"type":"connected"}; keepalive frames carry no domain data and clients
// must ignore them when deduplicating. Everything else is a full
// notification record pushed by the dispatcher.
func NotificationStream(c *gin.Context) {
	actor, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(stream.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(stream.PongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(stream.PongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	// All writes go through the client so the keepalive loop and the
	// dispatcher never write to the socket at the same time.
	client := stream.NewClient(conn)
	stream.Register(actor.ID, client)

	defer func() {
		stream.Unregister(actor.ID, client)
		client.Close()

		log.Printf("Notification stream closed for recipient %s", actor.ID)
	}()

	err = client.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "Notification stream established",
	})

	if err != nil {
		log.Printf("Failed to send welcome frame: %v", err)
		return
	}

	ticker := time.NewTicker(stream.KeepalivePeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		// Periodic keepalive frames detect half-open connections
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.WriteJSON(map[string]string{"type": "keepalive"}); err != nil {
					log.Printf("Keepalive failed for recipient %s: %v", actor.ID, err)
					return
				}
				// Protocol ping alongside the JSON frame; the pong reply
				// extends the read deadline.
				if err := client.Ping(); err != nil {
					log.Printf("Ping failed for recipient %s: %v", actor.ID, err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(stream.PongWait)); err != nil {
			log.Printf("Failed to set read deadline for recipient %s: %v", actor.ID, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for recipient %s: %v", actor.ID, err)
			}
			break
		}
	}
}
