package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"cookoutcreek.ai/internal/protocol"
	"cookoutcreek.ai/internal/sim/game"
)

const (
	writeWait       = 5 * time.Second
	helloWait       = 5 * time.Second
	engineReadWait  = 5 * time.Minute
	hudReadWait     = 60 * time.Second
	intentWait      = 10 * time.Second
	defaultHUDQueue = 8
	maxHUDQueue     = 64
)

// Server exposes the game over two websocket endpoints: one for the game
// engine and one for HUD clients.
type Server struct {
	game *game.Game
	log  *log.Logger

	// EngineQueue sizes the outbound buffer of each engine connection.
	EngineQueue int

	upgrader websocket.Upgrader
}

func NewServer(g *game.Game, logger *log.Logger) *Server {
	return &Server{
		game:        g,
		log:         logger,
		EngineQueue: 256,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// EngineHandler accepts an engine connection. Every inbound text frame is
// an engine event; actions flow back on the same socket.
func (s *Server) EngineHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, s.EngineQueue)
		id, err := s.game.AttachEngine(ctx, out)
		if err != nil {
			closeWith(conn, websocket.CloseTryAgainLater, err.Error())
			return
		}
		defer s.game.DetachEngine(id)
		s.logf("engine attached id=%s remote=%s", id, r.RemoteAddr)

		go writeLoop(ctx, cancel, conn, out, nil)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(engineReadWait))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if !s.game.SubmitEngine(msg) {
				s.logf("engine %s: inbox full, dropped message", id)
			}
		}
		s.logf("engine detached id=%s", id)
	}
}

// HUDHandler accepts a HUD session: HELLO, then WELCOME followed by STATE
// and CONTEXT_MENU pushes. Each INTENT is answered with an ACK.
func (s *Server) HUDHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sessionID, out := s.handshake(ctx, conn)
		if sessionID == "" {
			return
		}
		defer s.game.LeaveHUD(sessionID)

		// STATE pushes may overwrite each other in out; ACKs never do.
		acks := make(chan []byte, 1)
		go writeLoop(ctx, cancel, conn, out, acks)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(hudReadWait))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeIntent {
				continue
			}
			ack, err := s.submitIntent(ctx, msg)
			if err != nil {
				break
			}
			b, err := json.Marshal(ack)
			if err != nil {
				continue
			}
			select {
			case acks <- b:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
	}
}

func (s *Server) submitIntent(ctx context.Context, msg []byte) (protocol.AckMsg, error) {
	ctx, cancel := context.WithTimeout(ctx, intentWait)
	defer cancel()
	return s.game.SubmitIntent(ctx, msg)
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(helloWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	hello, err := protocol.DecodeHello(msg)
	if err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, websocket.ClosePolicyViolation, "bad protocol_version")
		return "", nil
	}
	if hello.ClientName == "" {
		hello.ClientName = "hud"
	}

	maxQ := hello.MaxQueue
	if maxQ <= 0 {
		maxQ = defaultHUDQueue
	}
	if maxQ > maxHUDQueue {
		maxQ = maxHUDQueue
	}
	out = make(chan []byte, maxQ)

	welcome, err := s.game.JoinHUD(ctx, hello, out)
	if err != nil {
		closeWith(conn, websocket.CloseTryAgainLater, err.Error())
		return "", nil
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.game.LeaveHUD(welcome.SessionID)
		return "", nil
	}
	s.logf("hud joined session=%s client=%s", welcome.SessionID, hello.ClientName)
	return welcome.SessionID, out
}

// writeLoop is the only writer of conn after the handshake. A nil acks
// channel is never selected.
func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out, acks <-chan []byte) {
	for {
		var b []byte
		var ok bool
		select {
		case <-ctx.Done():
			return
		case b, ok = <-acks:
		case b, ok = <-out:
		}
		if !ok {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			cancel()
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
