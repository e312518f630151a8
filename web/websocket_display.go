package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/rip8"
)

var upgrader = websocket.Upgrader{} // use default options

// Boot implements Display.
func (server *Server) Boot() error {
	return nil
}

func (server *Server) setWs(conn *websocket.Conn) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.socket = conn
	if server.lastScreen == nil {
		return nil
	}

	return conn.WriteMessage(websocket.BinaryMessage, server.lastScreen)
}

func (server *Server) unsetWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == conn {
		server.socket = nil
	}
}

// Render implements Display.
// The packed screen is sent as a single binary message.
func (server *Server) Render(screen rip8.Screen, settings rip8.ScreenSettings) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.lastScreen = append(server.lastScreen[:0], screen...)
	if server.socket == nil {
		return nil
	}

	if err := server.socket.WriteMessage(websocket.BinaryMessage, screen); err != nil {
		// a closed page must not halt the console
		slog.Warn("Could not send the screen", slog.Any("error", err))
		server.socket = nil
	}

	return nil
}

// serveDisplay streams the screen to the page and reads key events back.
// Every message from the page is a pair of bytes: the key and 1 when it went down, 0 when up.
func (server *Server) serveDisplay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Could not upgrade the connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Connecting to display")
	if err := server.setWs(conn); err != nil {
		slog.Error("Could not send the screen", slog.Any("error", err))
		return
	}
	defer server.unsetWs(conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.Info("Disconnecting from display")
			return
		}

		if len(msg) != 2 {
			slog.Warn("Malformed key event", slog.Int("size", len(msg)))
			continue
		}
		server.InMemoryKeyboard.Set(msg[0], msg[1] != 0)
	}
}
