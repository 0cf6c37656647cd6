package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playpong/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS middleware
	},
}

type role int

const (
	roleNone role = iota
	roleDisplay
	roleController
)

// Client represents a connected WebSocket client: a display or a controller.
// role and pin are written only from the client's own readPump, so they need
// no lock.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	role role
	pin  string
	side game.Side
}

// HandleWebSocket upgrades the connection and runs the read/write pumps. A
// connection starts roleless; the first createRoom or joinRoom message binds
// it to a room as display or controller.
func HandleWebSocket(hub *Hub, registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan []byte, 256),
		}
		hub.add(client)
		log.Printf("[WS] Connection %s established", client.id)

		go client.writePump()
		go client.readPump(hub, registry)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed, connection is being cleaned up. Best-effort
				// close frame; ignore errors (conn may already be closed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for connection %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for connection %s: %v", c.id, err)
				return
			}
		}
	}
}

// readPump reads and dispatches inbound messages until the connection drops,
// then runs the disconnect handling for whatever role the connection held.
func (c *Client) readPump(hub *Hub, registry *game.Registry) {
	defer func() {
		c.handleDisconnect(registry)
		hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error (unexpected) for connection %s: %v", c.id, err)
			}
			break
		}
		c.handleMessage(hub, registry, message)
	}
}
