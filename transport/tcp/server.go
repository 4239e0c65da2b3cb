package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/seega-backend/transport"
)

type Server struct {
	logger       *slog.Logger
	coordinator  transport.Coordinator
	writeTimeout time.Duration
	sendBuffer   int

	connectionsMutex sync.Mutex
	connections      map[string]*client
	wg               sync.WaitGroup
}

func New(logger *slog.Logger, coordinator transport.Coordinator, writeTimeout time.Duration, sendBuffer int) *Server {
	return &Server{
		logger:       logger.With("component", "tcp"),
		coordinator:  coordinator,
		writeTimeout: writeTimeout,
		sendBuffer:   sendBuffer,

		connections: make(map[string]*client),
	}
}

// Start - listens on addr and serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	that.logger.Info("TCP server listening", "addr", listener.Addr().String())

	return that.Serve(ctx, listener)
}

// Serve - accepts connections from listener until ctx is canceled, then hangs up on every client.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve")

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	defer func() {
		that.closeAll()
		that.wg.Wait()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info("TCP server stopped")
				return nil
			}

			return fmt.Errorf("failed to accept connection: %w", err)
		}

		c := newClient(uuid.NewString(), conn, that.writeTimeout, that.sendBuffer, that.logger)
		that.track(c)

		that.wg.Add(1)
		go func() {
			defer that.wg.Done()
			defer that.untrack(c)

			that.serveClient(ctx, c)
		}()
	}
}

func (that *Server) serveClient(ctx context.Context, c *client) {
	log := that.logger.With("method", "serveClient", "conn_id", c.ID())
	log.Info("client connected", "remote", c.conn.RemoteAddr().String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump()
	}()

	transport.Attach(ctx, that.logger, that.coordinator, c, c.readLine)

	c.Close()
	<-done

	log.Info("client disconnected")
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

func (that *Server) closeAll() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	// the write pump flushes what is queued and then closes the connection
	for _, c := range that.connections {
		c.Close()
	}
}
