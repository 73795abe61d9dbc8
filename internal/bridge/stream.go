package bridge

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"markdeck/internal/logging"

	"github.com/gorilla/websocket"
)

const wsReadBufferSize = 1024
const wsWriteBufferSize = 1024
const wsWriteTimeout = 10 * time.Second

func upgradeWebSocket(w http.ResponseWriter, r *http.Request, allowedOrigins []string) (*websocket.Conn, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isOriginAllowed(r, allowedOrigins)
		},
	}
	return upgrader.Upgrade(w, r, nil)
}

// streamMessages writes every message from output to conn until output
// closes, a write fails, or the client goes away.
func streamMessages(conn *websocket.Conn, output <-chan Message, writeTimeout time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case message, ok := <-output:
			if !ok {
				deadline := time.Now().Add(writeTimeout)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge closed"), deadline)
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(message); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func logUpgradeError(logger *logging.Logger, r *http.Request, err error) {
	fields := map[string]string{
		"path":   r.URL.Path,
		"status": strconv.Itoa(http.StatusBadRequest),
		"error":  err.Error(),
	}
	if r.RemoteAddr != "" {
		fields["remote_addr"] = r.RemoteAddr
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		fields["origin"] = origin
	}
	logger.Warn("websocket upgrade failed", fields)
}
