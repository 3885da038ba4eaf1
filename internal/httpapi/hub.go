package httpapi

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only status feed, no credentials ride along
	},
}

// Hub maintains the set of connected WebSocket clients and broadcasts
// newly discovered cycles to all of them: a broadcast channel plus a
// mutex-guarded client set.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mu        sync.Mutex
}

// NewHub builds an empty Hub. Call Run in its own goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel until it is closed, fanning each message
// out to every connected client. A client whose write deadline lapses is
// dropped rather than allowed to stall the others.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mu.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Hub] write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// Subscribe upgrades the request to a WebSocket and registers the
// connection. The read loop only exists to notice the client going away.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Hub] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("[Hub] client connected, total=%d", n)

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			n := len(h.clients)
			h.mu.Unlock()
			conn.Close()
			log.Printf("[Hub] client disconnected, total=%d", n)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Broadcast enqueues data for delivery to every connected client. Safe to
// call from any goroutine, including the pipeline's own result-store
// callback.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// Close stops Run by closing the broadcast channel. Callers must ensure no
// further Broadcast calls happen afterward.
func (h *Hub) Close() {
	close(h.broadcast)
}
