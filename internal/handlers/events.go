package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/pkg/clientip"
	"github.com/gorilla/websocket"
)

const (
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = 50 * time.Second
	eventsWriteWait  = 10 * time.Second
	eventsBuffer     = 32
)

// upgrader lets only the local shell attach: a loopback peer with no Origin
// or one of the shell's origins.
func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return clientip.IsLoopback(r) && clientip.OriginAllowed(r, h.AllowedOrigins)
		},
	}
}

// clientEvent is what the shell may send over the socket.
type clientEvent struct {
	Type string `json:"type"` // "ping", "sync"
}

// Events handles GET /ws/events. The shell receives the current session
// first, then every hub event until it disconnects.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, unsubscribe := h.Hub.Subscribe(eventsBuffer)
	defer unsubscribe()

	log := h.Log.WithField("remote", r.RemoteAddr)
	log.Info("shell connected")
	defer log.Info("shell disconnected")

	if err := h.writeEvent(conn, h.sessionEvent()); err != nil {
		return
	}

	done := make(chan struct{})
	resync := make(chan struct{}, 1)

	// Reader loop: keeps the deadline fresh and handles resync requests.
	go func() {
		defer close(done)
		conn.SetReadLimit(4 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))

			var msg clientEvent
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			if msg.Type == "sync" {
				select {
				case resync <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-resync:
			if err := h.writeEvent(conn, h.sessionEvent()); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := h.writeEvent(conn, evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sessionEvent() realtime.Event {
	return realtime.Event{
		Type:      realtime.EventSession,
		Data:      h.Session.State(),
		Timestamp: time.Now().UTC(),
	}
}

func (h *Handler) writeEvent(conn *websocket.Conn, evt realtime.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	return conn.WriteJSON(evt)
}
