package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"dukaan/internal/engine"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// handleSnapshotStream upgrades the connection and pushes the current
// snapshot immediately, then every snapshot committed while the client
// stays connected.
func (s *Server) handleSnapshotStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	snapshots, cancel := s.store.Subscribe()
	done := make(chan struct{})

	go s.writePump(conn, snapshots, done)
	go s.readPump(conn, cancel, done)
}

func (s *Server) writePump(conn *websocket.Conn, snapshots <-chan engine.State, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if err := writeSnapshot(conn, s.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			if err := writeSnapshot(conn, snapshot); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) readPump(conn *websocket.Conn, cancel func(), done chan struct{}) {
	defer func() {
		cancel()
		close(done)
		conn.Close()
	}()

	conn.SetReadLimit(4 * 1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snapshot engine.State) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
