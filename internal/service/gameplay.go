package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type GamePlayService interface {
	Shoot(ctx context.Context, roomID, playerID int64, target entity.Coordinate) (*battleship.ShotOutcome, error)
	State(ctx context.Context, roomID, viewerID int64) (*GameState, error)
}

type sessionProvider interface {
	Session(ctx context.Context, roomID int64) (*battleship.Session, error)
	CloseSession(roomID int64)
}

// GameState is a viewer's picture of a game plus its turn log.
type GameState struct {
	battleship.Snapshot
	Log []entity.Turn `json:"log"`
}

type gamePlayService struct {
	logger *slog.Logger

	sessions sessionProvider
	engine   *battleship.TurnEngine
	turns    turnLister
}

func NewGamePlayService(logger *slog.Logger, sessions sessionProvider, engine *battleship.TurnEngine, turns turnLister) GamePlayService {
	return &gamePlayService{
		logger:   logger.With("component", "gameplay"),
		sessions: sessions,
		engine:   engine,
		turns:    turns,
	}
}

func (that *gamePlayService) Shoot(ctx context.Context, roomID, playerID int64, target entity.Coordinate) (*battleship.ShotOutcome, error) {
	session, err := that.sessions.Session(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	outcome, err := that.engine.SubmitShot(ctx, session, playerID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to submit shot: %w", err)
	}

	if outcome.Finished {
		that.sessions.CloseSession(roomID)
		that.logger.Info("game finished", "method", "Shoot", "roomID", roomID, "winnerID", outcome.WinnerID)
	}

	return outcome, nil
}

func (that *gamePlayService) State(ctx context.Context, roomID, viewerID int64) (*GameState, error) {
	session, err := that.sessions.Session(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	snapshot := session.Snapshot(viewerID)

	turns, err := that.turns.ListByGame(ctx, session.GameID())
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	return &GameState{
		Snapshot: snapshot,
		Log:      turns,
	}, nil
}
