// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package visualize

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GridDelta is one broadcast update sent to connected viewers while a run
// is in progress (spec.md §3.3: "tick-by-tick grid deltas").
type GridDelta struct {
	CompletedCount int `json:"completed_count"`
	DroppedCount   int `json:"dropped_count"`
}

// Hub fans out GridDelta broadcasts to every connected websocket client,
// grounded on the teacher's pkg/streaming/websocket.go hub/broadcast
// pattern, stripped of its SLURM-specific stream-type routing since this
// viewer has exactly one stream: grid progress.
type Hub struct {
	upgrader websocket.Upgrader

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan GridDelta

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan GridDelta
}

// NewHub creates a Hub. Call Run in its own goroutine before serving
// websocket connections.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan GridDelta, 16),
		clients:    make(map[*wsClient]struct{}),
	}
}

// Run drives the hub's registration/broadcast loop until its channels are
// abandoned; intended to run for the lifetime of the owning Server.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case delta := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- delta:
				default:
					// slow client: drop the update rather than block the hub.
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a GridDelta for every connected client.
func (h *Hub) Broadcast(delta GridDelta) {
	select {
	case h.broadcast <- delta:
	default:
		// hub's broadcast buffer is full; drop rather than block the caller
		// (spec.md §5: the viewer must never slow down a scenario run).
	}
}

// HandleWebSocket upgrades the connection and streams GridDeltas to it
// until the client disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("visualize: websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan GridDelta, 8)}
	h.register <- client

	go h.writeLoop(client)
	h.readLoop(client)
}

func (h *Hub) readLoop(c *wsClient) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *wsClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case delta, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(delta); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
