package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/b0ase/path402/apps/aveumdash/internal/page"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
	changeBuffer   = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is what the hub writes to clients. A reset carries the whole
// document and replaces whatever the client shows; a change carries one
// mutation.
type Message struct {
	Type     string         `json:"type"`
	Elements []page.Element `json:"elements,omitempty"`
	Change   *page.Change   `json:"change,omitempty"`
}

// clientCommand is what clients may send: {"type":"click","id":"..."}.
type clientCommand struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// Hub fans document changes out to websocket clients. New clients get the
// full element list first, then every change. If the change queue
// overflows, every client is sent a fresh reset instead.
type Hub struct {
	doc        *page.Document
	clients    map[*wsClient]struct{}
	register   chan *wsClient
	unregister chan *wsClient
	changes    chan page.Change
	resync     atomic.Bool
	count      atomic.Int32
	quit       chan struct{}
	done       chan struct{}
}

// NewHub subscribes to doc. Call Run to start delivering.
func NewHub(doc *page.Document) *Hub {
	h := &Hub{
		doc:        doc,
		clients:    make(map[*wsClient]struct{}),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		changes:    make(chan page.Change, changeBuffer),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	doc.Subscribe(h.publish)
	return h
}

// publish runs under the document lock, so it never blocks.
func (h *Hub) publish(c page.Change) {
	select {
	case h.changes <- c:
	default:
		h.resync.Store(true)
	}
}

// Run is the hub loop.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.count.Store(0)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int32(len(h.clients)))
			c.send <- Message{Type: "reset", Elements: h.doc.Elements()}
			log.Printf("[ws] Client connected (total: %d)", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.count.Store(int32(len(h.clients)))
				log.Printf("[ws] Client disconnected (total: %d)", len(h.clients))
			}

		case ch := <-h.changes:
			h.broadcast(Message{Type: "change", Change: &ch})
		}

		if h.resync.CompareAndSwap(true, false) {
			log.Println("[ws] Change queue overflowed, resyncing clients")
			h.drain()
			h.broadcast(Message{Type: "reset", Elements: h.doc.Elements()})
		}
	}
}

// drain drops queued changes already covered by a reset.
func (h *Hub) drain() {
	for {
		select {
		case <-h.changes:
		default:
			return
		}
	}
}

func (h *Hub) broadcast(m Message) {
	for c := range h.clients {
		select {
		case c.send <- m:
		default:
			// Slow client: disconnect rather than stall the hub.
			delete(h.clients, c)
			close(c.send)
			h.count.Store(int32(len(h.clients)))
		}
	}
}

// Stop disconnects every client and ends the loop.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] Upgrade failed: %v", err)
		return
	}
	client := &wsClient{hub: h, conn: conn, send: make(chan Message, sendBuffer)}

	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] Read error: %v", err)
			}
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("[ws] Ignoring malformed message: %v", err)
			continue
		}
		if cmd.Type == "click" {
			if err := c.hub.doc.Click(cmd.ID); err != nil {
				log.Printf("[ws] Click %s: %v", cmd.ID, err)
			}
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case m, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(m); err != nil {
				log.Printf("[ws] Write error: %v", err)
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
