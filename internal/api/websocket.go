package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WebSocketMessage is one event pushed to connected clients
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// WebSocketHub fans lifecycle events out to connected UI clients. One
// goroutine (Run) owns the client set; everything reaches it through
// channels.
type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan WebSocketMessage
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// NewWebSocketHub creates a new hub
func NewWebSocketHub(log zerolog.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan WebSocketMessage, 64),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "ws").Logger(),
	}
}

// Run processes hub events. Call in its own goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
		case msg := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(msg); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Publish queues an event for broadcast. Never blocks; if the hub is
// backed up the event is dropped, since events are cosmetic and the
// client refetches state anyway.
func (h *WebSocketHub) Publish(event string, data interface{}) {
	msg := WebSocketMessage{Type: event, Data: data, Timestamp: time.Now().UTC()}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("event", event).Msg("dropping websocket event, hub backed up")
	}
}

// handleWebSocket upgrades the connection and parks it in the hub.
// The client's reads are discarded; the socket is push-only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsHub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.wsHub.register <- conn

	go func() {
		defer func() { s.wsHub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
