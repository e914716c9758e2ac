// Package sim is a stand-in kiosk backend. It serves the websocket event
// stream and the REST endpoints the kiosk client talks to, driven by a scripted
// detection scenario instead of a camera and tag reader.
package sim

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"recyclekiosk/internal/kiosk"
	"recyclekiosk/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // kiosk clients are not browsers
	},
}

// Message is one outbound frame. It marshals to the {type,payload} envelope.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Handler supplies the per-connection greeting and answers client requests.
type Handler interface {
	Welcome() []Message
	Handle(env kiosk.Envelope) (reply Message, ok bool)
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	log        logger.Logger
	handler    Handler
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(log logger.Logger, handler Handler) *Hub {
	return &Hub{
		log:        log,
		handler:    handler,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run handles registration and broadcasting until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			for _, m := range h.handler.Welcome() {
				client.trySend(m)
			}
			h.log.Debug("client connected", "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("client disconnected", "total_clients", total)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if !client.trySend(message) {
					h.log.Debug("dropping message for slow client", "type", message.Type)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected clients. It returns once the
// hub has taken the message, or immediately if the hub has stopped.
func (h *Hub) Broadcast(msgType string, payload any) {
	select {
	case h.broadcast <- Message{Type: msgType, Payload: payload}:
	case <-h.done:
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeWs upgrades the request and starts the client's pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade error", "error", err)
		return
	}
	h.log.Info("kiosk connected", "remote", r.RemoteAddr, "kiosk_id", r.Header.Get("X-Kiosk-Id"))

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// trySend queues m without blocking. It reports false when the buffer is full.
func (c *Client) trySend(m Message) bool {
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

// reply queues m from the read side. A client the hub already dropped has a
// closed send channel, so membership is checked under the hub lock.
func (c *Client) reply(m Message) {
	c.hub.mutex.RLock()
	defer c.hub.mutex.RUnlock()
	if c.hub.clients[c] {
		c.trySend(m)
	}
}

// readPump reads client requests until the connection fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket error", "error", err)
			}
			return
		}
		var env kiosk.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.hub.log.Warn("malformed client frame", "error", err)
			continue
		}
		c.hub.log.Debug("received message", "type", env.Type)
		if reply, ok := c.hub.handler.Handle(env); ok {
			c.reply(reply)
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(message)
			if err != nil {
				c.hub.log.Error("encode message", "type", message.Type, "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
