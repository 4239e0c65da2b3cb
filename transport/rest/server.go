package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

const shutdownTimeout = 5 * time.Second

type wsHandler interface {
	HandleWebSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params)
	Shutdown()
}

// Server - HTTP side of the game: health check and the WebSocket endpoint.
type Server struct {
	logger *slog.Logger
	router *httprouter.Router
	ws     wsHandler
}

func New(logger *slog.Logger, ws wsHandler) *Server {
	that := &Server{
		logger: logger.With("component", "rest"),
		router: httprouter.New(),
		ws:     ws,
	}

	that.setupRoutes()

	return that
}

func (that *Server) setupRoutes() {
	that.router.GET("/ping", that.pingHandler)
	that.router.GET("/ws", that.ws.HandleWebSocket)
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - listens on addr and serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	that.logger.Info("HTTP server listening", "addr", listener.Addr().String())

	return that.Serve(ctx, listener)
}

func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           that.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	that.ws.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}
