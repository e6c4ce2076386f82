package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/gorilla/websocket"
)

// Client represents a WebSocket client connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	poolID string // Optional: filter for a specific pool
}

// Hub maintains active WebSocket connections and broadcasts messages.
// The clients map is owned by the Run goroutine; clientCount mirrors its
// size for readers on other goroutines.
type Hub struct {
	clients     map[*Client]bool
	broadcast   chan []byte
	register    chan *Client
	unregister  chan *Client
	clientCount atomic.Int64
}

// Message represents a WebSocket message structure
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, implement proper origin checking
		return true
	},
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the WebSocket hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.clientCount.Store(int64(len(h.clients)))
			log.Printf("Client connected. Total clients: %d", len(h.clients))

			// Send welcome message
			welcome := Message{
				Type:      "connected",
				Timestamp: time.Now(),
				Data:      map[string]string{"status": "connected"},
			}
			if data, err := json.Marshal(welcome); err == nil {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
					h.clientCount.Store(int64(len(h.clients)))
				}
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.clientCount.Store(int64(len(h.clients)))
				log.Printf("Client disconnected. Total clients: %d", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientCount.Store(int64(len(h.clients)))
		}
	}
}

// broadcastMessage marshals and queues a message for every client
func (h *Hub) broadcastMessage(messageType string, data interface{}) {
	message := Message{
		Type:      messageType,
		Timestamp: time.Now(),
		Data:      data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		log.Printf("Broadcast channel is full, dropping %s message", messageType)
	}
}

// BroadcastPoolTest broadcasts a newly logged test to all connected clients
func (h *Hub) BroadcastPoolTest(test *models.PoolTest) {
	h.broadcastMessage("pool_test", test)
}

// BroadcastComplianceReport broadcasts the compliance report of a test
func (h *Hub) BroadcastComplianceReport(poolID string, report *chemistry.ComplianceReport) {
	h.broadcastMessage("compliance_report", map[string]interface{}{
		"pool_id": poolID,
		"report":  report,
	})
}

// BroadcastClosureAlert broadcasts a pool closure decision to all clients
func (h *Hub) BroadcastClosureAlert(poolID string, decision *chemistry.ClosureDecision) {
	h.broadcastMessage("closure_alert", map[string]interface{}{
		"pool_id":  poolID,
		"decision": decision,
	})
}

// BroadcastError broadcasts error messages to all clients
func (h *Hub) BroadcastError(errorMsg string) {
	h.broadcastMessage("error", map[string]string{"error": errorMsg})
}

// GetConnectedClientsCount returns the number of connected clients. Safe to
// call from any goroutine.
func (h *Hub) GetConnectedClientsCount() int {
	return int(h.clientCount.Load())
}

// HandleWebSocket handles WebSocket connection requests
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Get pool ID from query parameter if provided
	poolID := r.URL.Query().Get("pool_id")

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		poolID: poolID,
	}

	client.hub.register <- client

	// Start goroutines for handling the client
	go client.writePump()
	go client.readPump()
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	// Set read deadline and pong handler
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Handle incoming messages from clients (e.g., pool subscription requests)
		log.Printf("Received message from client: %s", message)
	}
}

// writePump handles writing messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to current message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
