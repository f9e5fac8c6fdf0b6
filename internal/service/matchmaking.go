package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type MatchmakingService interface {
	CreateRoom(ctx context.Context, creatorID int64, name string, layout entity.Layout) (*entity.Room, error)
	SubmitPlacement(ctx context.Context, roomID, playerID int64, layout entity.Layout) error
	JoinRoom(ctx context.Context, roomID, joinerID int64, layout entity.Layout) (*entity.Room, error)
	ListAvailable(ctx context.Context) ([]*entity.Room, error)

	Session(ctx context.Context, roomID int64) (*battleship.Session, error)
	CloseSession(roomID int64)
}

type roomRepo interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id int64) (*entity.Room, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Room, error)
}

type gameRepo interface {
	Start(ctx context.Context, roomID, player2ID int64, player1Board, player2Board entity.Layout) (*entity.Game, error)
	GetByRoomID(ctx context.Context, roomID int64) (*entity.Game, error)
}

type turnLister interface {
	ListByGame(ctx context.Context, gameID int64) ([]entity.Turn, error)
}

type placementRepo interface {
	Save(ctx context.Context, roomID, playerID int64, layout entity.Layout, ttl time.Duration) error
	Get(ctx context.Context, roomID, playerID int64) (entity.Layout, error)
	Delete(ctx context.Context, roomID int64, playerIDs ...int64) error
}

type userFinder interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// GameRules are the board parameters new games are validated against.
type GameRules struct {
	BoardSize    int
	Fleet        []int
	PlacementTTL time.Duration
}

type matchmakingService struct {
	logger *slog.Logger

	users      userFinder
	rooms      roomRepo
	games      gameRepo
	turns      turnLister
	placements placementRepo

	store     *battleship.SessionStore
	publisher battleship.EventPublisher
	rules     GameRules
}

func NewMatchmakingService(
	logger *slog.Logger,
	users userFinder,
	rooms roomRepo,
	games gameRepo,
	turns turnLister,
	placements placementRepo,
	store *battleship.SessionStore,
	publisher battleship.EventPublisher,
	rules GameRules,
) MatchmakingService {
	return &matchmakingService{
		logger:     logger.With("component", "matchmaking"),
		users:      users,
		rooms:      rooms,
		games:      games,
		turns:      turns,
		placements: placements,
		store:      store,
		publisher:  publisher,
		rules:      rules,
	}
}

// CreateRoom opens a waiting room. A non-empty layout is stored as the creator's placement.
func (that *matchmakingService) CreateRoom(ctx context.Context, creatorID int64, name string, layout entity.Layout) (*entity.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewValidationError("name", "The name field is required")
	}

	if len(layout) > 0 {
		if err := battleship.ValidateLayout(that.rules.BoardSize, layout, that.rules.Fleet); err != nil {
			return nil, err
		}
	}

	if _, err := that.users.GetByID(ctx, creatorID); err != nil {
		return nil, fmt.Errorf("failed to get room creator: %w", err)
	}

	room := &entity.Room{
		Name:      name,
		Player1ID: creatorID,
		Status:    entity.RoomStatusWaiting,
	}

	if err := that.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if len(layout) > 0 {
		if err := that.placements.Save(ctx, room.ID, creatorID, layout, that.rules.PlacementTTL); err != nil {
			return nil, fmt.Errorf("failed to save placement: %w", err)
		}
	}

	return room, nil
}

// SubmitPlacement stores or replaces the creator's layout while the room is waiting.
func (that *matchmakingService) SubmitPlacement(ctx context.Context, roomID, playerID int64, layout entity.Layout) error {
	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.Player1ID != playerID {
		return apperror.ErrNotRoomOwner
	}

	if !room.IsWaiting() {
		return apperror.ErrRoomNotWaiting
	}

	if err = battleship.ValidateLayout(that.rules.BoardSize, layout, that.rules.Fleet); err != nil {
		return err
	}

	if err = that.placements.Save(ctx, roomID, playerID, layout, that.rules.PlacementTTL); err != nil {
		return fmt.Errorf("failed to save placement: %w", err)
	}

	return nil
}

// JoinRoom seats joinerID as player2 and starts the game. Of concurrent joiners exactly one
// succeeds; the others get apperror.ErrRoomFull.
func (that *matchmakingService) JoinRoom(ctx context.Context, roomID, joinerID int64, layout entity.Layout) (*entity.Room, error) {
	log := that.logger.With("method", "JoinRoom", "roomID", roomID, "joinerID", joinerID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	switch {
	case room.Player1ID == joinerID:
		return nil, apperror.ErrSelfJoin
	case room.IsFull():
		return nil, apperror.ErrRoomFull
	case !room.IsWaiting():
		return nil, apperror.ErrRoomNotWaiting
	}

	joinerBoard, err := battleship.NewBoard(that.rules.BoardSize, layout, that.rules.Fleet)
	if err != nil {
		return nil, err
	}

	creatorLayout, err := that.placements.Get(ctx, roomID, room.Player1ID)
	if errors.Is(err, apperror.ErrPlacementMissing) && that.seatTaken(ctx, roomID) {
		// a concurrent join consumed the placement
		return nil, apperror.ErrRoomFull
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator placement: %w", err)
	}

	creatorBoard, err := battleship.NewBoard(that.rules.BoardSize, creatorLayout, that.rules.Fleet)
	if err != nil {
		return nil, fmt.Errorf("stored creator placement: %w", err)
	}

	game, err := that.games.Start(ctx, roomID, joinerID, creatorLayout, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if _, created := that.store.Create(roomID, game.ID, room.Player1ID, joinerID, creatorBoard, joinerBoard); !created {
		log.Warn("session already existed for started game", "gameID", game.ID)
	}

	if err = that.placements.Delete(ctx, roomID, room.Player1ID); err != nil {
		log.Error("failed to delete placement", "error", err)
	}

	that.publish(ctx, log, battleship.Event{
		Type:         battleship.EventSessionStarted,
		RoomID:       roomID,
		GameID:       game.ID,
		NextPlayerID: room.Player1ID,
	})

	room.Player2ID = &joinerID
	room.Status = entity.RoomStatusPlaying

	return room, nil
}

func (that *matchmakingService) seatTaken(ctx context.Context, roomID int64) bool {
	room, err := that.rooms.GetByID(ctx, roomID)
	return err == nil && room.IsFull()
}

func (that *matchmakingService) ListAvailable(ctx context.Context) ([]*entity.Room, error) {
	rooms, err := that.rooms.ListByStatus(ctx, entity.RoomStatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}

	return rooms, nil
}

// Session returns the room's live session. A game still in progress without a live session
// (after a restart) is rebuilt from its initial boards and recorded turns and made live again.
// Finished games are rebuilt the same way but never made live.
func (that *matchmakingService) Session(ctx context.Context, roomID int64) (*battleship.Session, error) {
	session, err := that.store.Get(roomID)
	if err == nil {
		return session, nil
	}

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if room.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	game, err := that.games.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	session, err = that.rehydrate(ctx, room, game)
	if err != nil {
		return nil, err
	}

	if game.IsFinished() {
		return session, nil
	}

	session, created := that.store.Add(session)
	if created {
		that.logger.Info("session rehydrated", "method", "Session", "roomID", roomID, "gameID", game.ID)
	}

	return session, nil
}

func (that *matchmakingService) rehydrate(ctx context.Context, room *entity.Room, game *entity.Game) (*battleship.Session, error) {
	if room.Player2ID == nil {
		return nil, fmt.Errorf("room %d has a game but no second player", room.ID)
	}

	// Layouts were checked against the fleet when the game started.
	board1, err := battleship.NewBoard(that.rules.BoardSize, game.Player1InitialBoard, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild player1 board: %w", err)
	}

	board2, err := battleship.NewBoard(that.rules.BoardSize, game.Player2InitialBoard, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild player2 board: %w", err)
	}

	turns, err := that.turns.ListByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	session := battleship.NewSession(room.ID, game.ID, room.Player1ID, *room.Player2ID, board1, board2)
	if err = session.Replay(turns); err != nil {
		return nil, fmt.Errorf("failed to replay game %d: %w", game.ID, err)
	}

	return session, nil
}

func (that *matchmakingService) CloseSession(roomID int64) {
	that.store.Remove(roomID)
}

func (that *matchmakingService) publish(ctx context.Context, log *slog.Logger, event battleship.Event) {
	if err := that.publisher.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("failed to publish event", "event", event.Type, "error", err)
	}
}
