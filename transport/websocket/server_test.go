package websocket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/service"
)

type channelEvents struct {
	events chan battleship.Event
	rooms  chan int64
}

func (that *channelEvents) Subscribe(_ context.Context, roomID int64) (<-chan battleship.Event, error) {
	that.rooms <- roomID
	return that.events, nil
}

type stubState struct {
	err error
}

func (that stubState) State(_ context.Context, roomID, _ int64) (*service.GameState, error) {
	if that.err != nil {
		return nil, that.err
	}
	return &service.GameState{Snapshot: battleship.Snapshot{RoomID: roomID, Player1ID: 1, Player2ID: 2}}, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (that *syncBuffer) Write(p []byte) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.buf.Write(p)
}

func (that *syncBuffer) String() string {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.buf.String()
}

func newTestServer(t *testing.T, allowOrigins []string) (*Server, *channelEvents, *httptest.Server) {
	t.Helper()
	return newTestServerWith(t, allowOrigins, stubState{}, io.Discard)
}

func newTestServerWith(t *testing.T, allowOrigins []string, games gameStateProvider, logs io.Writer) (*Server, *channelEvents, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	events := &channelEvents{events: make(chan battleship.Event, 1), rooms: make(chan int64, 1)}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ws := New(logger, events, games, allowOrigins)

	engine := gin.New()
	engine.GET("/ws/rooms/:roomId", func(c *gin.Context) {
		c.Set("user", &entity.User{ID: 1})
	}, ws.HandleRoom)

	httpServer := httptest.NewServer(engine)
	t.Cleanup(func() {
		ws.Close()
		httpServer.Close()
	})

	return ws, events, httpServer
}

func dial(t *testing.T, httpServer *httptest.Server, path string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, header)
}

func TestServer_HandleRoom(t *testing.T) {
	t.Run("Streams the state then room events", func(t *testing.T) {
		ws, events, httpServer := newTestServer(t, nil)

		// Given: a client connected to room 7
		conn, _, err := dial(t, httpServer, "/ws/rooms/7", nil)
		require.NoError(t, err)
		defer conn.Close()

		assert.Equal(t, int64(7), <-events.rooms)
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		// Then: the first message is the game state
		var first Message
		require.NoError(t, conn.ReadJSON(&first))
		assert.Equal(t, messageTypeState, first.Type)
		assert.EqualValues(t, 7, first.Payload.(map[string]any)["roomId"])

		// When: a shot is resolved in the room
		events.events <- battleship.Event{Type: battleship.EventShotResolved, RoomID: 7, NextPlayerID: 2}

		// Then: the client receives it
		var second Message
		require.NoError(t, conn.ReadJSON(&second))
		assert.Equal(t, battleship.EventShotResolved, second.Type)
		assert.EqualValues(t, 2, second.Payload.(map[string]any)["nextPlayerId"])

		require.Eventually(t, func() bool { return ws.Len() == 1 }, time.Second, 10*time.Millisecond)
	})

	t.Run("Closed event stream ends the connection", func(t *testing.T) {
		ws, events, httpServer := newTestServer(t, nil)

		conn, _, err := dial(t, httpServer, "/ws/rooms/3", nil)
		require.NoError(t, err)
		defer conn.Close()
		<-events.rooms

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var state Message
		require.NoError(t, conn.ReadJSON(&state))

		close(events.events)

		_, _, err = conn.ReadMessage()
		require.Error(t, err)
		require.Eventually(t, func() bool { return ws.Len() == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("State failures are logged and the stream continues", func(t *testing.T) {
		cases := map[string]struct {
			err     error
			level   string
			message string
		}{
			"storage failure": {err: errors.New("database is locked"), level: `"level":"ERROR"`, message: "failed to load game state"},
			"waiting room":    {err: apperror.ErrGameIsNotStarted, level: `"level":"DEBUG"`, message: "room is waiting"},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				logs := &syncBuffer{}
				_, events, httpServer := newTestServerWith(t, nil, stubState{err: tc.err}, logs)

				// Given: a client connecting while the state can't be loaded
				conn, _, err := dial(t, httpServer, "/ws/rooms/8", nil)
				require.NoError(t, err)
				defer conn.Close()
				<-events.rooms

				// When: an event arrives
				events.events <- battleship.Event{Type: battleship.EventSessionStarted, RoomID: 8}

				// Then: it is the first message and the failure left a log line
				_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
				var first Message
				require.NoError(t, conn.ReadJSON(&first))
				assert.Equal(t, battleship.EventSessionStarted, first.Type)

				assert.Contains(t, logs.String(), tc.message)
				assert.Contains(t, logs.String(), tc.level)
			})
		}
	})

	t.Run("Rejects a bad room id", func(t *testing.T) {
		_, _, httpServer := newTestServer(t, nil)

		_, resp, err := dial(t, httpServer, "/ws/rooms/zero", nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Rejects foreign origins", func(t *testing.T) {
		_, _, httpServer := newTestServer(t, []string{"http://allowed.example"})

		_, resp, err := dial(t, httpServer, "/ws/rooms/1", http.Header{"Origin": {"http://evil.example"}})

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCheckOrigin(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	restricted := checkOrigin([]string{"http://a.example"})
	assert.True(t, restricted(request("http://a.example")))
	assert.True(t, restricted(request("")))
	assert.False(t, restricted(request("http://b.example")))

	assert.True(t, checkOrigin([]string{"*"})(request("http://b.example")))
}
