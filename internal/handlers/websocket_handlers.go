// internal/handlers/websocket_handlers.go
package handlers

import (
	"log/slog"
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"krishi-vaidya/internal/websocket"
)

// NewWebSocketHandler upgrades connections and attaches them to the feed
// hub. The stream is read-only for clients, so no session is required.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}
		websocket.NewClient(hub, conn)
	}
}
