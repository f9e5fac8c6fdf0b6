package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/service"
	"github.com/Oz-CR/BattleShip-Back/transport/rest"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	messageTypeState = "state"
)

type eventSubscriber interface {
	Subscribe(ctx context.Context, roomID int64) (<-chan battleship.Event, error)
}

type gameStateProvider interface {
	State(ctx context.Context, roomID, viewerID int64) (*service.GameState, error)
}

// Message is what clients receive: the game state on connect, then one message per room event.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Server streams room events to websocket clients.
type Server struct {
	logger   *slog.Logger
	events   eventSubscriber
	games    gameStateProvider
	upgrader websocket.Upgrader

	mu          sync.Mutex
	connections map[*websocket.Conn]context.CancelFunc
}

func New(logger *slog.Logger, events eventSubscriber, games gameStateProvider, allowOrigins []string) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		events: events,
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowOrigins),
		},
		connections: make(map[*websocket.Conn]context.CancelFunc),
	}
}

func checkOrigin(allowOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, origin := range allowOrigins {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// HandleRoom - upgrades the request and streams the room until either side goes away.
func (that *Server) HandleRoom(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
	if err != nil || roomID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data.", "errors": gin.H{"roomId": "The roomId parameter must be a positive integer"}})
		return
	}

	user := rest.UserFromContext(c)
	log := that.logger.With("method", "HandleRoom", "roomID", roomID, "userID", user.ID)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, err := that.events.Subscribe(ctx, roomID)
	if err != nil {
		log.Error("failed to subscribe to room events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	conn, err := that.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	that.track(conn, cancel)
	defer that.untrack(conn)

	log.Info("websocket connection established")

	go that.readPump(conn, cancel)

	state, err := that.games.State(ctx, roomID, user.ID)
	switch {
	case err == nil:
		if err = that.write(conn, Message{Type: messageTypeState, Payload: state}); err != nil {
			log.Error("failed to send state", "error", err)
			return
		}
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		log.Debug("room is waiting, no state to send")
	default:
		log.Error("failed to load game state", "error", err)
	}

	that.writePump(ctx, conn, events, log)
}

// readPump discards client frames; it only exists to process control frames and notice closes.
func (that *Server) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// writePump is the only writer of conn.
func (that *Server) writePump(ctx context.Context, conn *websocket.Conn, events <-chan battleship.Event, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := that.write(conn, Message{Type: event.Type, Payload: event}); err != nil {
				log.Error("failed to send event", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Server) write(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (that *Server) track(conn *websocket.Conn, cancel context.CancelFunc) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[conn] = cancel
}

func (that *Server) untrack(conn *websocket.Conn) {
	that.mu.Lock()
	delete(that.connections, conn)
	that.mu.Unlock()

	_ = conn.Close()
}

// Close ends every open stream; their handlers close the connections.
func (that *Server) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, cancel := range that.connections {
		cancel()
	}
}

func (that *Server) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.connections)
}
