package rest

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWS struct {
	upgrades atomic.Int32
	shutdown atomic.Bool
}

func (that *fakeWS) HandleWebSocket(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	that.upgrades.Add(1)
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func (that *fakeWS) Shutdown() {
	that.shutdown.Store(true)
}

func newTestServer() (*Server, *fakeWS) {
	ws := &fakeWS{}
	return New(slog.New(slog.NewJSONHandler(io.Discard, nil)), ws), ws
}

func TestServer_Routes(t *testing.T) {
	t.Run("Ping", func(t *testing.T) {
		server, _ := newTestServer()

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("WebSocket route", func(t *testing.T) {
		server, ws := newTestServer()

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

		assert.Equal(t, int32(1), ws.upgrades.Load())
	})

	t.Run("Unknown route", func(t *testing.T) {
		server, _ := newTestServer()

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/game", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Serve(t *testing.T) {
	server, ws := newTestServer()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ctx, listener)
	}()

	// Given: a running server
	resp, err := http.Get("http://" + listener.Addr().String() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	// When: the context is canceled
	cancel()

	// Then: the server shuts down and hangs up WebSocket clients
	select {
	case err = <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, ws.shutdown.Load())
}
