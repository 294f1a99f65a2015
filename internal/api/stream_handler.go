package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/authstate"
)

const (
	// writeWait is the deadline for a single websocket write
	writeWait = 10 * time.Second

	// pingInterval keeps idle connections alive through proxies
	pingInterval = 30 * time.Second
)

// StreamHandler streams auth-state change events to the client over a
// WebSocket connection. Clients receive only events for their own UID.
// The subscription is cancelled when the connection closes.
type StreamHandler struct {
	broker   *authstate.Broker
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler. allowedOrigins restricts
// which browser origins may open the stream; empty allows all
// (development mode).
func NewStreamHandler(broker *authstate.Broker, allowedOrigins []string) *StreamHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	h := &StreamHandler{broker: broker}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			return allowed[r.Header.Get("Origin")]
		},
	}
	return h
}

// Stream handles GET /api/authState
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustGetClaims(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		log.Printf("auth state stream: upgrade failed for %s: %v", claims.UID, err)
		return
	}
	defer conn.Close()

	sub := h.broker.Subscribe(r.Context())
	defer sub.Cancel()

	// Discard inbound frames; this stream is server-push only. The read
	// loop also notices when the peer goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			// Deliver only the caller's own auth-state changes
			if event.UID != claims.UID {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("auth state stream: write failed for %s: %v", claims.UID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
