package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type subscriber interface {
	Subscribe(ctx context.Context, id string, attach func(current *entity.GameState)) error
}

// Server upgrades observer connections and ties them to the hub.
type Server struct {
	logger     *slog.Logger
	subscriber subscriber
	hub        *Hub

	upgrader   websocket.Upgrader
	sendBuffer int
}

func New(logger *slog.Logger, subscriber subscriber, hub *Hub, checkOrigin func(r *http.Request) bool) *Server {
	return &Server{
		logger:     logger.With("component", "websocket"),
		subscriber: subscriber,
		hub:        hub,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		sendBuffer: defaultSendBuffer,
	}
}

// ServeRoom - upgrades the request and streams roomID's state until the peer goes away.
func (that *Server) ServeRoom(writer http.ResponseWriter, req *http.Request, roomID string) {
	log := that.logger.With("method", "ServeRoom", "roomID", roomID)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	obs := NewObserver(that.sendBuffer)

	err = that.subscriber.Subscribe(req.Context(), roomID, func(current *entity.GameState) {
		that.hub.Attach(roomID, obs, current)
	})
	if err != nil {
		log.Error("failed to subscribe observer", "error", err)
		closeWith(conn, websocket.CloseInternalServerErr, "storage unavailable")
		return
	}

	log.Info("observer connected")

	go that.writePump(conn, obs, log)
	that.readPump(conn, obs)

	that.hub.Detach(roomID, obs)
	obs.Close()

	log.Info("observer disconnected")
}

// readPump - observers send nothing meaningful; reading keeps pongs and close frames flowing.
func (that *Server) readPump(conn *websocket.Conn, obs *Observer) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("observer read failed", "error", err)
			}
			return
		}

		if obs.IsClosed() {
			return
		}
	}
}

// writePump - the only goroutine writing to conn.
func (that *Server) writePump(conn *websocket.Conn, obs *Observer, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message := <-obs.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("failed to deliver state", "error", err)
				obs.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				obs.Close()
				return
			}
		case <-obs.Done():
			closeWith(conn, websocket.CloseNormalClosure, "room closed")
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	message := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	_ = conn.Close()
}
