package handlers

import (
	"net/http"
	"sync"

	jwtutil "github.com/adilzhan-s/lostfound/pkg/jwt"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks the WebSocket connection of each online user so freshly sent
// case messages can be pushed without polling.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// Push writes a payload to the user's connection if they are online. Broken
// connections are dropped; delivery is best-effort.
func (h *Hub) Push(userID string, payload interface{}) {
	h.mu.Lock()
	conn, ok := h.clients[userID]
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.WriteJSON(payload); err != nil {
		logrus.WithError(err).WithField("userID", userID).Warn("WebSocket push failed, dropping client")
		h.remove(userID, conn)
	}
}

func (h *Hub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
}

func (h *Hub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == conn {
		delete(h.clients, userID)
	}
	conn.Close()
}

// WSHandler upgrades GET /api/ws connections for live message delivery.
type WSHandler struct {
	Hub       *Hub
	JWTSecret string
}

func NewWSHandler(hub *Hub, jwtSecret string) *WSHandler {
	return &WSHandler{Hub: hub, JWTSecret: jwtSecret}
}

// ServeWS authenticates via a token query parameter (browsers cannot set
// headers on WebSocket dials) and keeps the connection registered until the
// client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	userID := claims.UserID
	h.Hub.add(userID, conn)
	logrus.WithField("userID", userID).Info("WebSocket client connected")

	// Drain the connection; the server only pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.Hub.remove(userID, conn)
	logrus.WithField("userID", userID).Info("WebSocket client disconnected")
}
