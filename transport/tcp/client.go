package tcp

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/rocketscienceinc/seega-backend/transport"
)

// client - one TCP participant. Lines in, text blocks out.
type client struct {
	*transport.Outbox

	id           string
	conn         net.Conn
	reader       *bufio.Reader
	writeTimeout time.Duration
	logger       *slog.Logger
}

func newClient(id string, conn net.Conn, writeTimeout time.Duration, sendBuffer int, logger *slog.Logger) *client {
	return &client{
		Outbox: transport.NewOutbox(sendBuffer),

		id:           id,
		conn:         conn,
		reader:       bufio.NewReader(conn),
		writeTimeout: writeTimeout,
		logger:       logger.With("conn_id", id),
	}
}

func (that *client) ID() string {
	return that.id
}

// readLine - a final line without a newline is still returned before io.EOF.
func (that *client) readLine() (string, error) {
	line, err := that.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}

		return "", err
	}

	return line, nil
}

// writePump - writes queued messages until the outbox is closed, then hangs up.
func (that *client) writePump() {
	defer that.conn.Close()

	for msg := range that.Queue() {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			that.logger.Warn("failed to set write deadline", "error", err)
			return
		}

		if _, err := io.WriteString(that.conn, msg); err != nil {
			that.logger.Warn("failed to write", "error", err)
			return
		}
	}
}
