package battleship

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

const (
	EventSessionStarted = "session_started"
	EventShotResolved   = "shot_resolved"
	EventSessionClosed  = "session_closed"
)

// Event is published for every change of a room's game.
type Event struct {
	Type         string       `json:"type"`
	RoomID       int64        `json:"roomId"`
	GameID       int64        `json:"gameId"`
	Turn         *entity.Turn `json:"turn,omitempty"`
	NextPlayerID int64        `json:"nextPlayerId,omitempty"`
	WinnerID     int64        `json:"winnerId,omitempty"`
}

// TurnRecorder persists a turn. When winnerID is set, the same write finishes the game and its room.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, turn *entity.Turn, winnerID *int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type ShotOutcome struct {
	Turn         entity.Turn `json:"turn"`
	Result       ShotResult  `json:"-"`
	Finished     bool        `json:"finished"`
	WinnerID     int64       `json:"winnerId,omitempty"`
	NextPlayerID int64       `json:"nextPlayerId,omitempty"`
}

type TurnEngine struct {
	logger    *slog.Logger
	recorder  TurnRecorder
	publisher EventPublisher
	now       func() time.Time
}

func NewTurnEngine(logger *slog.Logger, recorder TurnRecorder, publisher EventPublisher) *TurnEngine {
	return &TurnEngine{
		logger:    logger.With("component", "turn-engine"),
		recorder:  recorder,
		publisher: publisher,
		now:       time.Now,
	}
}

// SubmitShot fires playerID's shot at c. Rule violations come back as apperror sentinels and
// leave the session untouched.
func (that *TurnEngine) SubmitShot(ctx context.Context, session *Session, playerID int64, c entity.Coordinate) (*ShotOutcome, error) {
	outcome, err := that.resolve(ctx, session, playerID, c)
	if err != nil {
		return nil, err
	}

	event := Event{
		Type:         EventShotResolved,
		RoomID:       session.RoomID(),
		GameID:       session.GameID(),
		Turn:         &outcome.Turn,
		NextPlayerID: outcome.NextPlayerID,
	}
	if outcome.Finished {
		event.Type = EventSessionClosed
		event.WinnerID = outcome.WinnerID
	}

	if err = that.publisher.Publish(ctx, event); err != nil {
		that.logger.Error("failed to publish event", "method", "SubmitShot", "event", event.Type, "roomID", event.RoomID, "error", err)
	}

	return outcome, nil
}

func (that *TurnEngine) resolve(ctx context.Context, session *Session, playerID int64, c entity.Coordinate) (*ShotOutcome, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	target, err := session.checkTurn(playerID)
	if err != nil {
		return nil, err
	}

	result, err := target.ApplyShot(c)
	if err != nil {
		return nil, err
	}

	turn := entity.Turn{
		GameID:     session.gameID,
		PlayerID:   playerID,
		PositionX:  c.X,
		PositionY:  c.Y,
		Hit:        result == ShotHit,
		TurnNumber: session.turns + 1,
		CreatedAt:  that.now().UTC(),
	}

	var winnerID *int64
	if target.IsDefeated() {
		winnerID = &playerID
	}

	if err = that.recorder.RecordTurn(ctx, &turn, winnerID); err != nil {
		target.revert(c)
		return nil, fmt.Errorf("failed to record turn %d: %w", turn.TurnNumber, err)
	}

	session.advance(playerID, winnerID != nil)

	outcome := &ShotOutcome{
		Turn:     turn,
		Result:   result,
		Finished: session.state == Finished,
		WinnerID: session.winnerID,
	}
	if seat, ok := session.awaitingSeat(); ok {
		outcome.NextPlayerID = session.playerIDs[seat]
	}

	return outcome, nil
}
