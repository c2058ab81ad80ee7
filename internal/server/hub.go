// Package server bridges presentation clients to game sessions over
// websockets. Clients send commands and receive the resulting event batches,
// score deltas and the win.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/arjun115/freecell/internal/config"
	"github.com/arjun115/freecell/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks connected clients and routes their commands to sessions.
type Hub struct {
	cfg      config.WebSocketConfig
	sessions *session.Manager
	logger   *zap.Logger
	upgrader websocket.Upgrader

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	clients    map[*Client]bool
	count      atomic.Int64
}

// NewHub creates a hub serving games from sessions.
func NewHub(cfg config.WebSocketConfig, sessions *session.Manager, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		cfg:        cfg,
		sessions:   sessions,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// An empty allow list accepts every origin.
func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, r.Header.Get("Origin"))
}

// Run processes registrations until ctx is done, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			h.logger.Debug("client registered", zap.String("remote", client.remote))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Add(-1)
				h.logger.Debug("client unregistered", zap.String("remote", client.remote))
			}

		case <-ctx.Done():
			for client := range h.clients {
				client.conn.Close()
			}
			h.logger.Info("websocket hub stopped", zap.Int("clients", len(h.clients)))
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeHTTP upgrades the request and starts the client's pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		remote: r.RemoteAddr,
		logger: h.logger.With(zap.String("remote", r.RemoteAddr)),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleMessage(c *Client, msg Inbound) {
	c.logger.Debug("message received", zap.String("type", msg.Type), zap.String("game_id", msg.GameID))

	if msg.Type == MsgNewGame {
		s, err := h.sessions.Create()
		if err != nil {
			c.fail(msg.Type, err.Error())
			return
		}
		c.attach(s)
		c.sendState()
		return
	}

	if msg.GameID != "" && msg.GameID != c.gameID() {
		s, err := h.sessions.Get(msg.GameID)
		if err != nil {
			c.fail(msg.Type, err.Error())
			return
		}
		c.attach(s)
	}
	s := c.session
	if s == nil {
		c.fail(msg.Type, "no game: send new_game first")
		return
	}

	switch msg.Type {
	case MsgState:
		c.sendState()

	case MsgCanDrag:
		var req cardRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.CardID == nil {
			c.fail(msg.Type, "can_drag needs card_id")
			return
		}
		ok, lifted := s.Drag(*req.CardID)
		c.emit(MsgDragResult, dragResult{CardID: *req.CardID, OK: ok, Cards: lifted})

	case MsgPlace:
		var req placeRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.fail(msg.Type, "place needs card_id, field and number")
			return
		}
		ok := s.Place(req.CardID, req.Field, req.Number)
		c.emit(MsgPlaceResult, placeResult{CardID: req.CardID, OK: ok})

	case MsgAutoMove:
		var req cardRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.fail(msg.Type, "auto_move takes an optional card_id")
				return
			}
		}
		c.emit(MsgAutoMoveResult, okResult{OK: s.AutoMove(req.CardID)})

	case MsgDraw:
		c.emit(MsgDrawResult, okResult{OK: s.Draw()})

	case MsgUndo:
		c.emit(MsgUndoResult, okResult{OK: s.Undo()})

	default:
		c.fail(msg.Type, "unknown message type")
	}
}

// pongWait is how long a client may stay silent before it is dropped.
func (h *Hub) pongWait() time.Duration {
	return h.cfg.PingInterval * 2
}
