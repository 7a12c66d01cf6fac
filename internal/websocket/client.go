package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Tuning for the balance stream. Traffic is one-way: the server pushes small
// JSON frames and the browser only answers pings, so frames stay tiny and a
// short send queue absorbs a burst of ledger mutations without blocking.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second // must fire before pongWait expires
	maxFrameSize   = 256
	sendQueueDepth = 16
)

// Client is one open balance stream belonging to a single user. A user may
// hold several at once (one per tab); the hub fans updates out to all of them.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// ServeBalances upgrades the request and pumps balance updates until either
// side closes. The endpoint is cookie-authenticated, so cross-origin upgrades
// are refused unless allowedOrigin is "*".
func ServeBalances(w http.ResponseWriter, r *http.Request, hub *Hub, userID, allowedOrigin string) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the handshake error.
		return
	}
	client := &Client{
		conn: conn,
		send: make(chan []byte, sendQueueDepth),
	}
	hub.Register(userID, client)
	go client.writePump(hub, userID)
	client.readPump(hub, userID)
}

// originAllowed permits non-browser clients (no Origin header) and otherwise
// requires an exact match with the configured origin.
func originAllowed(origin, allowed string) bool {
	if allowed == "*" || origin == "" {
		return true
	}
	return origin == allowed
}

// readPump drains the connection so pong and close frames are processed.
// Clients never send data frames on this stream.
func (c *Client) readPump(hub *Hub, userID string) {
	defer func() {
		hub.Unregister(userID, c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				slog.Warn("balance stream closed unexpectedly", "user_id", userID, "err", err)
			}
			return
		}
	}
}

func (c *Client) writePump(hub *Hub, userID string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		hub.Unregister(userID, c)
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
