package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quantpulse/indicator-engine/pkg/indicator"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

var wsConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Number of active WebSocket connections",
	},
)

// StreamEvent is one snapshot pushed to WebSocket subscribers.
type StreamEvent struct {
	Symbol   string              `json:"symbol"`
	Snapshot *indicator.Snapshot `json:"snapshot"`
}

// wsClient is one subscriber connection. An empty symbol subscribes to all.
type wsClient struct {
	conn   *websocket.Conn
	symbol string
	send   chan []byte
}

// HubConfig holds configuration for the WebSocket hub
type HubConfig struct {
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxConnections int
}

// DefaultHubConfig returns default configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxConnections: 1000,
	}
}

// Hub fans evaluated snapshots out to WebSocket subscribers. Slow clients
// are dropped rather than allowed to stall the broadcast path.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader
	clients  map[*wsClient]struct{}
	mu       sync.RWMutex
}

// NewHub creates a new hub
func NewHub(config HubConfig) *Hub {
	return &Hub{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes one snapshot to every subscriber of the symbol.
func (h *Hub) Broadcast(symbol string, snap *indicator.Snapshot) {
	payload, err := json.Marshal(&StreamEvent{Symbol: symbol, Snapshot: snap})
	if err != nil {
		logger.Error("Failed to marshal stream event",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.symbol != "" && client.symbol != symbol {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Buffer full: the writer will notice the closed channel path
			// on disconnect; drop the event for this client.
		}
	}
}

// HandleStream handles GET /api/v1/stream/:symbol upgrades
func (h *Hub) HandleStream(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= h.config.MaxConnections {
		respondWithError(w, http.StatusServiceUnavailable, "Connection limit reached")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", logger.ErrorField(err))
		return
	}

	client := &wsClient{
		conn:   conn,
		symbol: mux.Vars(r)["symbol"],
		send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	wsConnections.Inc()

	logger.Info("WebSocket client connected",
		logger.String("symbol", client.symbol),
		logger.String("remote_addr", r.RemoteAddr),
	)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		wsConnections.Dec()
	}
	h.mu.Unlock()
	client.conn.Close()
}

// writePump pushes events and pings until the client goes away.
func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		h.remove(client)
	}()

	for {
		select {
		case payload, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects.
func (h *Hub) readPump(client *wsClient) {
	defer h.remove(client)

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(h.config.PingInterval * 2))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(h.config.PingInterval * 2))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.remove(client)
	}
}
