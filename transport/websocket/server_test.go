package websocket

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seega-backend/internal/entity"
	"github.com/rocketscienceinc/seega-backend/internal/protocol"
	"github.com/rocketscienceinc/seega-backend/internal/repository"
	"github.com/rocketscienceinc/seega-backend/internal/usecase"
)

const ioTimeout = 5 * time.Second

func startServer(t *testing.T) (string, *usecase.Coordinator) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	coordinator := usecase.NewCoordinator(logger, repository.NewMemoryPlayerRepository(),
		repository.NewMemoryGameRepository(), usecase.WithSideOrder(entity.PlayerX))

	server := New(logger, coordinator, ioTimeout, 64)

	router := httprouter.New()
	router.GET("/ws", server.HandleWebSocket)

	httpServer := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Shutdown()
		httpServer.Close()
	})

	return "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws", coordinator
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// readUntil - reads frames until one equals or contains want.
func readUntil(t *testing.T, conn *websocket.Conn, want string) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(ioTimeout)))

	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", want)

		if strings.Contains(string(data), want) {
			return string(data)
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, line string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
}

func TestServer_Game(t *testing.T) {
	url, coordinator := startServer(t)

	// Given: two seated players
	x := dial(t, url)
	assert.Equal(t, "You are player X\n", readUntil(t, x, "You are player"))

	o := dial(t, url)
	assert.Equal(t, "You are player O\n", readUntil(t, o, "You are player"))

	readUntil(t, x, protocol.PlayersConnected)
	readUntil(t, o, protocol.PlayersConnected)

	// When: X places and O answers out of turn
	send(t, x, "place 4 4")
	board := readUntil(t, o, "It is O's turn")
	assert.Contains(t, board, "4 . . . . X\n")

	send(t, x, "place 0 0")
	assert.Equal(t, "Not your turn.\n", readUntil(t, x, "turn."))

	// When: X resigns
	send(t, x, "/resign")

	// Then: both receive the game over frame followed by a close
	want := "[GAME_OVER] Player O won! X resigned.\n"
	assert.Equal(t, want, readUntil(t, x, "[GAME_OVER]"))
	assert.Equal(t, want, readUntil(t, o, "[GAME_OVER]"))

	_, _, err := o.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	select {
	case <-coordinator.Done():
	case <-time.After(ioTimeout):
		t.Fatal("coordinator did not finish")
	}
}

func TestServer_Full(t *testing.T) {
	url, _ := startServer(t)

	x := dial(t, url)
	readUntil(t, x, "You are player X")
	o := dial(t, url)
	readUntil(t, o, "You are player O")

	third := dial(t, url)

	assert.Equal(t, "Game is full.\n", readUntil(t, third, "full"))
}
