package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Peers must answer a ping within pongWait; pings go out at 90% of it.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending to a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one WebSocket client. Seat is the table seat whose hole
// cards the client sees, or -1 for a spectator.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	seat      int
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, seat int, server *Server) *Connection {
	ctx, cancel := context.WithCancel(server.ctx)
	return &Connection{
		conn:   conn,
		send:   make(chan []byte, 64),
		seat:   seat,
		server: server,
		logger: server.logger.With("seat", seat),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Send queues a JSON message. A client that cannot keep up is dropped.
func (c *Connection) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.sendRaw(data)
}

func (c *Connection) sendRaw(data []byte) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("Client too slow, disconnecting", "queued", len(c.send))
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump decodes requests until the peer goes away. Malformed JSON gets
// an error reply and the connection stays open.
func (c *Connection) readPump() {
	defer func() {
		_ = c.Close()
		c.server.unregister(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				_ = c.Send(Reply{Error: "invalid message: " + err.Error()})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		_ = c.Send(c.server.handle(req))
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// writePump drains the send queue and keeps the peer alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Dropping client after write failure", "error", err)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
