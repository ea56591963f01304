package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"blockfall/internal/session"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if IsAllowedOrigin(origin) {
			return true
		}

		// Log rejected origin for security monitoring
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages all WebSocket connections. State snapshots are pushed
// after every applied action, gated on the session version so a burst of
// no-op reads never produces duplicate frames.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	// Commands received over the socket are applied to the host
	host HostInterface

	// Last published session version (atomic)
	lastVersion uint64

	// Connection limiting per IP
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a new hub with connection limiting. The host may
// be nil, in which case inbound commands are ignored.
func NewWebSocketHub(host HostInterface) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		host:       host,
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run starts the hub
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()

			count := h.ClientCount()
			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				// Release the connection slot for this IP
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

			count := h.ClientCount()
			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()

			if len(dead) > 0 {
				h.mu.Lock()
				for _, conn := range dead {
					if client, ok := h.clients[conn]; ok {
						h.wsLimiter.Release(client.ip)
						delete(h.clients, conn)
						conn.Close()
					}
				}
				h.mu.Unlock()
			}
			IncrementWSMessages()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// PublishSnapshot pushes a state snapshot to all clients. Snapshots at or
// below the last published version are dropped; OnChange callbacks run on
// their own goroutines and can arrive out of order.
func (h *WebSocketHub) PublishSnapshot(snap session.Snapshot) {
	for {
		last := atomic.LoadUint64(&h.lastVersion)
		if snap.Version <= last {
			return
		}
		if atomic.CompareAndSwapUint64(&h.lastVersion, last, snap.Version) {
			break
		}
	}

	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast("game:state", snapshotToJSON(snap))
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Get client IP for rate limiting
	ip := GetClientIP(r)

	// Check total connection limit
	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	// Check per-IP connection limit
	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}

	// Register the connection
	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	// Greet the new client with the current state
	if h.host != nil {
		snap := h.host.Snapshot()
		if data, err := json.Marshal(map[string]interface{}{
			"event": "game:state",
			"data":  snapshotToJSON(snap),
		}); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	// Read loop: clients send the same commands as POST /api/game/input
	go func() {
		defer func() {
			h.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var req inputRequest
			if err := json.Unmarshal(message, &req); err != nil {
				continue
			}
			if h.host == nil || req.Command == "" {
				continue
			}

			if _, err := ApplyCommand(h.host, req.Command); err != nil {
				log.Printf("📨 Rejected WebSocket command from %s: %v", ip, err)
				continue
			}
			RecordAction(req.Command)
		}
	}()
}
