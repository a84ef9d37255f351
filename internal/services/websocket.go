package services

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a connected dashboard session.
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and fans reservation events out to
// admin dashboards: new cancellation requests, hotel reservations awaiting
// review, approval decisions.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Info("dashboard client connected", zap.Uint("userId", client.ID))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			h.log.Info("dashboard client disconnected", zap.Uint("userId", client.ID))
		}
	}
}

// Register queues a client for registration with the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToRole sends a message to all connected clients with the role.
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// HandleWebSocket upgrades the request and attaches the client to the hub.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames so pings and close frames are processed.
// The dashboard feed is one-way; client payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("websocket read error", zap.Uint("userId", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards hub messages to the websocket connection.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.log.Warn("websocket write error", zap.Uint("userId", c.ID), zap.Error(err))
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
