package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/service"
	"github.com/Oz-CR/BattleShip-Back/internal/usecase"
)

type accountUseCase interface {
	Register(ctx context.Context, fullName, email, password string) (*entity.User, *entity.Token, error)
	Login(ctx context.Context, email, password string) (*entity.User, *entity.Token, error)
	Logout(ctx context.Context, claims *entity.Claims) error
	Authenticate(ctx context.Context, token string) (*entity.User, *entity.Claims, error)
	UpdateProfile(ctx context.Context, userID int64, update usecase.ProfileUpdate) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID int64, password string, claims *entity.Claims) error
}

type statsUseCase interface {
	Stats(ctx context.Context, userID int64) (*usecase.PlayerStats, error)
}

type matchmakingService interface {
	CreateRoom(ctx context.Context, creatorID int64, name string, layout entity.Layout) (*entity.Room, error)
	SubmitPlacement(ctx context.Context, roomID, playerID int64, layout entity.Layout) error
	JoinRoom(ctx context.Context, roomID, joinerID int64, layout entity.Layout) (*entity.Room, error)
	ListAvailable(ctx context.Context) ([]*entity.Room, error)
}

type gamePlayService interface {
	Shoot(ctx context.Context, roomID, playerID int64, target entity.Coordinate) (*battleship.ShotOutcome, error)
	State(ctx context.Context, roomID, viewerID int64) (*service.GameState, error)
}

type Options struct {
	Debug        bool
	AllowOrigins []string
}

type Server struct {
	logger *slog.Logger
	engine *gin.Engine

	account     accountUseCase
	stats       statsUseCase
	matchmaking matchmakingService
	gameplay    gamePlayService
}

var validatorsOnce sync.Once

func New(
	logger *slog.Logger,
	opts Options,
	account accountUseCase,
	stats statsUseCase,
	matchmaking matchmakingService,
	gameplay gamePlayService,
) *Server {
	validatorsOnce.Do(func() {
		if err := registerValidators(); err != nil {
			logger.Error("failed to register validators", "error", err)
		}
	})

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		logger:      logger.With("component", "rest"),
		engine:      gin.New(),
		account:     account,
		stats:       stats,
		matchmaking: matchmaking,
		gameplay:    gameplay,
	}

	server.engine.Use(gin.Recovery(), server.requestLogger())

	if len(opts.AllowOrigins) > 0 {
		server.engine.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	server.routes()

	return server
}

func (that *Server) routes() {
	that.engine.GET("/ping", that.Ping)

	auth := that.engine.Group("/api/auth")
	auth.POST("/register", that.Register)
	auth.POST("/login", that.Login)
	auth.POST("/logout", that.requireAuth(false), that.Logout)

	api := that.engine.Group("/api")
	api.GET("/partidas/disponibilad", that.ListAvailable)
	api.POST("/createRoom", that.optionalAuth(), that.CreateRoom)
	api.POST("/join/player2", that.requireAuth(false), that.JoinRoom)
	api.PUT("/rooms/:roomId/placement", that.requireAuth(false), that.SubmitPlacement)

	api.GET("/games/:roomId", that.requireAuth(false), that.GameState)
	api.POST("/games/:roomId/shots", that.requireAuth(false), that.Shoot)

	profile := api.Group("/profile", that.requireAuth(false))
	profile.GET("", that.ShowProfile)
	profile.PUT("", that.UpdateProfile)
	profile.DELETE("", that.DeleteProfile)
	profile.GET("/stats", that.ProfileStats)
}

// MountWebsocket registers a websocket endpoint. Browsers can't set headers on upgrade
// requests, so the token may also come in the token query parameter.
func (that *Server) MountWebsocket(path string, handler gin.HandlerFunc) {
	that.engine.GET(path, that.requireAuth(true), handler)
}

func (that *Server) Handler() http.Handler {
	return that.engine
}

func (that *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		that.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
