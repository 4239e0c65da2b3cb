// Package websocket serves the line protocol over WebSocket: every text frame is one line.
package websocket

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/seega-backend/transport"
)

const (
	readBufferSize  = 1024
	writeBufferSize = 1024
	maxMessageSize  = 4096
)

type Server struct {
	logger       *slog.Logger
	coordinator  transport.Coordinator
	writeTimeout time.Duration
	sendBuffer   int
	upgrader     websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client
}

func New(logger *slog.Logger, coordinator transport.Coordinator, writeTimeout time.Duration, sendBuffer int) *Server {
	return &Server{
		logger:       logger.With("component", "websocket"),
		coordinator:  coordinator,
		writeTimeout: writeTimeout,
		sendBuffer:   sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		connections: make(map[string]*client),
	}
}

// HandleWebSocket - upgrades the request and serves the participant until it disconnects.
func (that *Server) HandleWebSocket(writer http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "HandleWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, that.writeTimeout, that.sendBuffer, that.logger)
	that.track(c)
	defer that.untrack(c)

	log.Info("WebSocket connection established", "conn_id", c.ID(), "remote", req.RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()

	transport.Attach(req.Context(), that.logger, that.coordinator, c, c.readLine)

	c.Close()
	<-done

	log.Info("WebSocket connection closed", "conn_id", c.ID())
}

// Shutdown - hangs up on every open connection. http.Server does not track hijacked connections.
func (that *Server) Shutdown() {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	// the write pump flushes what is queued and then closes the connection
	for _, c := range that.connections {
		c.Close()
	}
}

func (that *Server) track(c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[c.ID()] = c
}

func (that *Server) untrack(c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	delete(that.connections, c.ID())
}
