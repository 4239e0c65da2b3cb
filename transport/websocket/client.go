package websocket

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/seega-backend/transport"
)

type client struct {
	*transport.Outbox

	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration
	logger       *slog.Logger
}

func newClient(id string, conn *websocket.Conn, writeTimeout time.Duration, sendBuffer int, logger *slog.Logger) *client {
	conn.SetReadLimit(maxMessageSize)

	return &client{
		Outbox: transport.NewOutbox(sendBuffer),

		id:           id,
		conn:         conn,
		writeTimeout: writeTimeout,
		logger:       logger.With("conn_id", id),
	}
}

func (that *client) ID() string {
	return that.id
}

// readLine - next text frame with its line ending stripped. Binary frames are ignored.
func (that *client) readLine() (string, error) {
	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}

			return "", err
		}

		if messageType != websocket.TextMessage {
			continue
		}

		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

// writePump - one text frame per queued message, then a close frame once the outbox is closed.
func (that *client) writePump() {
	defer that.conn.Close()

	for msg := range that.Queue() {
		_ = that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout))

		if err := that.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			that.logger.Warn("failed to write", "error", err)
			return
		}
	}

	_ = that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout))
	_ = that.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
