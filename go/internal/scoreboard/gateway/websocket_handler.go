package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests from displays
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	onConnect         func(*Connection)
}

// NewWebSocketHandler creates a new WebSocket handler. onConnect, if set, runs
// once for each new connection.
func NewWebSocketHandler(cm *ConnectionManager, onConnect func(*Connection)) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		onConnect:         onConnect,
	}
}

// HandleScoreboardConnection handles GET /ws/scoreboard
func (h *WebSocketHandler) HandleScoreboardConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.connectionManager.UpgradeConnection(w, r)
	if err != nil {
		// the upgrader has already written an error response
		log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed to upgrade WebSocket connection")
		return
	}

	if h.onConnect != nil {
		h.onConnect(conn)
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/scoreboard", h.HandleScoreboardConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
