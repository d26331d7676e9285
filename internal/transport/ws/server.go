// Package ws provides the websocket chat endpoint. Every connection owns one
// conversation session.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/heyhassaan/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/internal/session"
)

// Config holds connection limits.
type Config struct {
	HistoryLimit   int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns the connection defaults.
func DefaultConfig() Config {
	return Config{
		HistoryLimit:   session.DefaultHistoryLimit,
		ReadTimeout:    90 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Server handles websocket connections.
type Server struct {
	sender   session.Sender
	cfg      Config
	upgrader websocket.Upgrader
}

// NewServer creates a websocket server whose sessions deliver through sender.
func NewServer(sender session.Sender, cfg Config) *Server {
	return &Server{
		sender: sender,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the websocket route.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.HandleWebSocket)
}

type connection struct {
	ws      *websocket.Conn
	inbox   chan []byte
	send    chan Frame
	done    chan struct{}
	session *session.Session
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func (c *connection) close() {
	c.once.Do(func() { _ = c.ws.Close() })
}

// HandleWebSocket handles the upgrade and starts the connection pumps.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade websocket")
		return err
	}
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	ctx, cancel := context.WithCancel(context.Background())
	conn := &connection{
		ws:      ws,
		inbox:   make(chan []byte),
		send:    make(chan Frame, 16),
		done:    make(chan struct{}),
		session: session.New(s.sender, session.WithHistoryLimit(s.cfg.HistoryLimit)),
		ctx:     ctx,
		cancel:  cancel,
	}
	log.Info().Str("session_id", conn.session.ID()).Msg("chat connection opened")

	go s.writePump(conn)
	go s.handlePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads frames into conn.inbox. Leaving it cancels the turn in
// flight, so a client that goes away mid-turn stops the routing call.
func (s *Server) readPump(conn *connection) {
	defer func() {
		conn.cancel()
		close(conn.inbox)
		log.Info().Str("session_id", conn.session.ID()).Msg("chat connection closed")
	}()

	_ = conn.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		select {
		case conn.inbox <- data:
		case <-conn.done:
			return
		}
	}
}

// handlePump answers frames in arrival order. It is the only producer on
// conn.send and closes it on exit.
func (s *Server) handlePump(conn *connection) {
	defer close(conn.send)

	for data := range conn.inbox {
		frame := s.handleFrame(conn.ctx, conn, data)
		select {
		case conn.send <- frame:
		case <-conn.done:
			return
		}
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
// Its exit closes conn.done, which releases the other pumps.
func (s *Server) writePump(conn *connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.cancel()
		close(conn.done)
		conn.close()
	}()

	for {
		select {
		case frame, ok := <-conn.send:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				_ = conn.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.ws.WriteJSON(frame); err != nil {
				log.Warn().Err(err).Msg("failed to write frame")
				return
			}

		case <-ticker.C:
			_ = conn.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame dispatches one client frame and returns the answer.
func (s *Server) handleFrame(ctx context.Context, conn *connection, data []byte) Frame {
	sess := conn.session

	var in Frame
	if err := json.Unmarshal(data, &in); err != nil {
		return errorFrame(sess.ID(), "", ErrorCodeInvalidMessage, "invalid JSON message")
	}

	switch in.Type {
	case TypeHello:
		return newFrame(TypeHelloAck, sess.ID(), in.RequestID)

	case TypeMessage:
		if in.Text == "" {
			return errorFrame(sess.ID(), in.RequestID, ErrorCodeInvalidMessage, "text is required")
		}
		reply, err := sess.Send(ctx, in.Text)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID()).Msg("chat message failed")
			return errorFrame(sess.ID(), in.RequestID, ErrorCodeAgentFailed, err.Error())
		}
		out := newFrame(TypeReply, sess.ID(), in.RequestID)
		out.Text = reply
		if id, ok := sess.CustomerID(); ok {
			out.CustomerID = &id
		}
		return out

	case TypeClear:
		sess.Clear()
		return newFrame(TypeCleared, sess.ID(), in.RequestID)

	case TypeHistory:
		out := newFrame(TypeHistory, sess.ID(), in.RequestID)
		out.History = sess.History()
		return out
	}
	return errorFrame(sess.ID(), in.RequestID, ErrorCodeInvalidMessage, "unknown message type: "+in.Type)
}

func errorFrame(sessionID, requestID, code, message string) Frame {
	f := newFrame(TypeError, sessionID, requestID)
	f.Code = code
	f.Message = message
	return f
}
