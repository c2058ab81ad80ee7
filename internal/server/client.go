package server

import (
	"encoding/json"
	"time"

	"github.com/arjun115/freecell/internal/game/rules"
	"github.com/arjun115/freecell/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one websocket connection. It follows at most one game at a time.
// Only readPump touches session and stop.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	remote string
	logger *zap.Logger

	session *session.Session
	stop    func()
}

func (c *Client) gameID() string {
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// attach makes s the client's game and streams its signals to the client.
func (c *Client) attach(s *session.Session) {
	c.detach()
	c.session = s
	id := s.ID
	c.stop = s.Observe(session.Observer{
		OnChange: func(b rules.Batch) {
			c.enqueue(Outbound{Type: MsgEvents, GameID: id, Data: EncodeBatch(b)})
		},
		OnPoints: func(delta, score int) {
			c.enqueue(Outbound{Type: MsgPoints, GameID: id, Data: pointsUpdate{Delta: delta, Score: score}})
		},
		OnFinish: func() {
			c.enqueue(Outbound{Type: MsgFinished, GameID: id})
		},
	})
	c.logger.Info("client attached to game", zap.String("game_id", id))
}

func (c *Client) detach() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.session = nil
}

func (c *Client) sendState() {
	c.emit(MsgGameState, c.session.State())
}

func (c *Client) emit(msgType string, data any) {
	c.enqueue(Outbound{Type: msgType, GameID: c.gameID(), Data: data})
}

func (c *Client) fail(msgType, message string) {
	c.logger.Warn("rejected message", zap.String("type", msgType), zap.String("reason", message))
	c.enqueue(Outbound{Type: MsgError, GameID: c.gameID(), Data: errorPayload{Message: message}})
}

// enqueue never blocks; a client too slow to drain its buffer loses frames.
func (c *Client) enqueue(msg Outbound) {
	frame, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("encode frame", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("send buffer full, frame dropped", zap.String("type", msg.Type))
	}
}

func (c *Client) readPump() {
	defer func() {
		c.detach()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait()))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			c.fail("", "malformed message")
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
