package chathub

import (
	"encoding/json"
	"time"

	"campusmentor/backend/internal/config"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSClient pushes a subscription's snapshots over one WebSocket connection.
// The read pump only watches for the peer closing; clients never send
// messages over the socket (sends go through the HTTP API).
type WSClient struct {
	conn *websocket.Conn
	sub  *Subscription
	log  *zap.Logger
}

func NewWSClient(conn *websocket.Conn, sub *Subscription, log *zap.Logger) *WSClient {
	return &WSClient{conn: conn, sub: sub, log: log}
}

// Run starts the read and write pumps and blocks until the write pump ends,
// i.e. until the subscription is closed or the connection drops.
func (c *WSClient) Run() {
	go c.readPump()
	c.writePump()
}

func (c *WSClient) readPump() {
	defer func() {
		c.sub.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		// Inbound frames carry nothing; sends go through the HTTP API.
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case snapshot, ok := <-c.sub.Updates():
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// Subscription released; tell the peer and stop.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(snapshot)
			if err != nil {
				c.log.Warn("failed to encode snapshot", zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
