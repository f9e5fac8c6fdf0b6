package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/config"
	"github.com/Oz-CR/BattleShip-Back/internal/repository"
	"github.com/Oz-CR/BattleShip-Back/internal/repository/storage"
	"github.com/Oz-CR/BattleShip-Back/internal/service"
	eventbus "github.com/Oz-CR/BattleShip-Back/internal/transport/redis"
	"github.com/Oz-CR/BattleShip-Back/internal/usecase"
	"github.com/Oz-CR/BattleShip-Back/transport/rest"
	"github.com/Oz-CR/BattleShip-Back/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	db, err := storage.New(ctx, conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}

	defer func() {
		if err = db.Close(); err != nil {
			log.Error("could not close database", "error", err)
		}
	}()

	if err = db.Init(ctx); err != nil {
		return fmt.Errorf("could not migrate database: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	gameRepo := repository.NewGameRepository(db)
	turnRepo := repository.NewTurnRepository(db)
	placementRepo := repository.NewPlacementRepository(redisStorage.Connection)
	tokenRepo := repository.NewTokenRepository(redisStorage.Connection)

	events := eventbus.New(logger, redisStorage.Connection)

	sessions := battleship.NewSessionStore()
	defer sessions.Close()

	engine := battleship.NewTurnEngine(logger, turnRepo, events)

	authService := service.NewAuthService(conf.Auth.JWTSecretKey, conf.Auth.TokenTTL, tokenRepo)
	userService := service.NewUserService(userRepo)
	matchmakingService := service.NewMatchmakingService(logger, userRepo, roomRepo, gameRepo, turnRepo, placementRepo,
		sessions, events, service.GameRules{
			BoardSize:    conf.Game.BoardSize,
			Fleet:        conf.Game.Fleet,
			PlacementTTL: conf.Game.PlacementTTL,
		})
	gamePlayService := service.NewGamePlayService(logger, matchmakingService, engine, turnRepo)

	accountUseCase := usecase.NewAccountUseCase(logger, userService, authService)
	statsUseCase := usecase.NewStatsUseCase(userService, roomRepo, gameRepo, turnRepo)

	restServer := rest.New(logger, rest.Options{
		Debug:        conf.LogLevel == "debug",
		AllowOrigins: conf.CORS.AllowOrigins,
	}, accountUseCase, statsUseCase, matchmakingService, gamePlayService)

	wsServer := websocket.New(logger, events, gamePlayService, conf.CORS.AllowOrigins)
	defer wsServer.Close()

	restServer.MountWebsocket("/ws/rooms/:roomId", wsServer.HandleRoom)

	srv := &http.Server{
		Addr:              ":" + conf.HTTPPort,
		Handler:           restServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := srv.ListenAndServe(); httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	return nil
}
