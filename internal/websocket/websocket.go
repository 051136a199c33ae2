package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
	snapshotWait   = 2 * time.Second
)

// ErrClosed is returned when publishing to a stopped hub
var ErrClosed = errors.New("hub is closed")

// SnapshotLoader returns the persisted state a newly connected client starts from.
// ok is false when nothing has been saved.
type SnapshotLoader func(ctx context.Context) (state *models.AuctionState, ok bool, err error)

// Handler receives messages delivered to an in-process subscriber
type Handler func(models.SyncMessage)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log         logger.Logger
	clients     map[*Client]bool
	subscribers map[*subscriber]bool
	broadcast   chan models.SyncMessage
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	snapshot    SnapshotLoader
	origins     []string
	upgrader    websocket.Upgrader
	done        chan struct{}
	stopOnce    sync.Once
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type subscriber struct {
	handler Handler
	queue   chan models.SyncMessage
}

// New creates a new Hub. snapshot may be nil, in which case new clients wait
// for the next broadcast.
func New(log logger.Logger, snapshot SnapshotLoader) *Hub {
	h := &Hub{
		log:         log,
		clients:     make(map[*Client]bool),
		subscribers: make(map[*subscriber]bool),
		broadcast:   make(chan models.SyncMessage, sendBufferSize),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		snapshot:    snapshot,
		done:        make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// AllowOrigins restricts cross-origin websocket connections to origins, the
// same list the HTTP API accepts. With no origins every connection is
// accepted. Call it before serving.
func (h *Hub) AllowOrigins(origins ...string) {
	h.origins = origins
}

// checkOrigin accepts requests without an Origin header, requests from the
// page's own host, and the configured origins ("*" allows any).
func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	h.log.Warn("Rejected websocket origin", "origin", origin)
	return false
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// Stop closes every client connection and subscriber. Publish fails afterwards.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			for sub := range h.subscribers {
				delete(h.subscribers, sub)
				close(sub.queue)
			}
			h.mutex.Unlock()
			h.log.Debug("Hub stopped")
			return

		case client := <-h.register:
			// The snapshot is queued before the client joins the broadcast set,
			// so it always precedes any later state.
			h.sendSnapshot(client)
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "client_id", client.id, "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "client_id", client.id, "total_clients", total)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	if h.snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotWait)
	defer cancel()

	state, ok, err := h.snapshot(ctx)
	if err != nil {
		h.log.Warn("Could not load snapshot for new client", "client_id", client.id, "error", err)
		return
	}
	if !ok {
		return
	}
	data, err := encode(models.SyncMessage{State: state})
	if err != nil {
		h.log.Error("Could not encode snapshot", "error", err)
		return
	}
	client.send <- data
}

func (h *Hub) deliver(message models.SyncMessage) {
	data, err := encode(message)
	if err != nil {
		h.log.Error("Could not encode broadcast", "error", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, unregister
			h.log.Warn("Dropping slow client", "client_id", client.id)
			go func(c *Client) {
				select {
				case h.unregister <- c:
				case <-h.done:
				}
			}(client)
		}
	}

	for sub := range h.subscribers {
		select {
		case sub.queue <- message:
		default:
			h.log.Warn("Subscriber queue full, message dropped", "type", message.WSMessage().Type)
		}
	}
}

func encode(message models.SyncMessage) ([]byte, error) {
	return json.Marshal(message.WSMessage())
}

// Publish queues message for every connected client and subscriber.
// Delivery is best effort; Publish only blocks while the hub's queue is full.
func (h *Hub) Publish(ctx context.Context, message models.SyncMessage) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers an in-process handler. Handlers run on their own
// goroutine, in publish order, and only see messages published after they
// subscribed. The returned function unsubscribes.
func (h *Hub) Subscribe(handler Handler) func() {
	sub := &subscriber{handler: handler, queue: make(chan models.SyncMessage, sendBufferSize)}

	h.mutex.Lock()
	select {
	case <-h.done:
		close(sub.queue)
	default:
		h.subscribers[sub] = true
	}
	h.mutex.Unlock()

	go func() {
		for msg := range sub.queue {
			sub.handler(msg)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mutex.Lock()
			defer h.mutex.Unlock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.queue)
			}
		})
	}
}

// ClientCount returns the number of connected websocket clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump drains the connection. Observers never write state, so incoming
// messages are ignored.
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
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "client_id", c.id, "error", err)
			}
			break
		}
		c.hub.log.Debug("Ignoring message from observer", "client_id", c.id)
	}
}

// writePump pumps messages from the hub to the websocket connection
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}
