// Package viewer streams delivered surface meshes to browser viewers over
// websockets.
package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tikz/molsurf/logging"
	"github.com/tikz/molsurf/mesh"
	"github.com/tikz/molsurf/pipeline"
)

var (
	_ pipeline.Sink     = (*Hub)(nil)
	_ pipeline.Notifier = (*Hub)(nil)
)

// Message is the JSON payload sent to viewers.
type Message struct {
	Type    string        `json:"type"` // "mesh" or "notification"
	Complex string        `json:"complex,omitempty"`
	Mesh    *mesh.Buffers `json:"mesh,omitempty"`
	Kind    string        `json:"kind,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// Hub keeps the last mesh delivered for each complex and broadcasts new
// deliveries and notifications to every connected viewer.
type Hub struct {
	Log logging.Logger

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	meshes  map[string]*mesh.Buffers
	order   []string
}

// NewHub returns a hub accepting connections from any origin.
func NewHub() *Hub {
	return &Hub{
		Log: logging.Discard(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
		meshes:  make(map[string]*mesh.Buffers),
	}
}

// ServeHTTP upgrades the connection, sends the meshes delivered so far and
// keeps the viewer registered until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warnf("viewer: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	connMutex.Lock()
	h.mu.Lock()
	h.clients[conn] = connMutex
	var initial []Message
	for _, id := range h.order {
		initial = append(initial, Message{Type: "mesh", Complex: id, Mesh: h.meshes[id]})
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for _, msg := range initial {
		if err := conn.WriteJSON(msg); err != nil {
			connMutex.Unlock()
			h.Log.Warnf("viewer: send initial mesh: %v", err)
			return
		}
	}
	connMutex.Unlock()

	// Viewers do not send commands; reading detects disconnection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Deliver implements pipeline.Sink.
func (h *Hub) Deliver(ctx context.Context, complexID string, m *mesh.Mesh) error {
	b := m.Flatten32()

	h.mu.Lock()
	if _, ok := h.meshes[complexID]; !ok {
		h.order = append(h.order, complexID)
	}
	h.meshes[complexID] = &b
	h.mu.Unlock()

	return h.broadcast(Message{Type: "mesh", Complex: complexID, Mesh: &b})
}

// Notify implements pipeline.Notifier.
func (h *Hub) Notify(kind pipeline.NotificationKind, message string) {
	if err := h.broadcast(Message{Type: "notification", Kind: kind.String(), Text: message}); err != nil {
		h.Log.Warnf("viewer: notify: %v", err)
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	var failed []*websocket.Conn
	for conn, connMutex := range h.clients {
		connMutex.Lock()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
		}
		connMutex.Unlock()
	}
	h.mu.RUnlock()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			delete(h.clients, conn)
			conn.Close()
		}
		h.mu.Unlock()
		h.Log.Debugf("viewer: dropped %d client(s)", len(failed))
	}
	return nil
}
