package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/repository/storage"
)

type TurnRepository interface {
	RecordTurn(ctx context.Context, turn *entity.Turn, winnerID *int64) error
	ListByGame(ctx context.Context, gameID int64) ([]entity.Turn, error)
}

type turnRepository struct {
	db *storage.Storage
}

func NewTurnRepository(db *storage.Storage) TurnRepository {
	return &turnRepository{
		db: db,
	}
}

// RecordTurn appends the turn and, when winnerID is set, finishes the game and its room in the
// same transaction. Re-recording an identical turn is a no-op; a different shot under an already
// used turn number fails with apperror.ErrTurnConflict.
func (that *turnRepository) RecordTurn(ctx context.Context, turn *entity.Turn, winnerID *int64) error {
	now := time.Now().UTC()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = now
	}

	err := that.db.InTx(ctx, func(tx *sql.Tx) error {
		insert := that.db.Rebind(`INSERT INTO turns (game_id, player_id, position_x, position_y, hit, turn_number, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (game_id, turn_number) DO NOTHING RETURNING id`)

		err := tx.QueryRowContext(ctx, insert,
			turn.GameID, turn.PlayerID, turn.PositionX, turn.PositionY, turn.Hit, turn.TurnNumber, turn.CreatedAt, now,
		).Scan(&turn.ID)

		if errors.Is(err, sql.ErrNoRows) {
			err = that.matchExisting(ctx, tx, turn)
		}
		if err != nil {
			return err
		}

		if winnerID == nil {
			return nil
		}

		finishGame := that.db.Rebind(`UPDATE games SET status = ?, winner_id = ?, updated_at = ? WHERE id = ?`)
		if _, err = tx.ExecContext(ctx, finishGame, entity.GameStatusFinished, *winnerID, now, turn.GameID); err != nil {
			return fmt.Errorf("can't finish game: %w", err)
		}

		finishRoom := that.db.Rebind(`UPDATE rooms SET status = ?, updated_at = ?
			WHERE id = (SELECT room_id FROM games WHERE id = ?)`)
		if _, err = tx.ExecContext(ctx, finishRoom, entity.RoomStatusFinished, now, turn.GameID); err != nil {
			return fmt.Errorf("can't finish room: %w", err)
		}

		return nil
	})

	return err
}

func (that *turnRepository) matchExisting(ctx context.Context, tx *sql.Tx, turn *entity.Turn) error {
	query := that.db.Rebind(`SELECT id, player_id, position_x, position_y, hit, created_at FROM turns
		WHERE game_id = ? AND turn_number = ?`)

	var existing entity.Turn

	err := tx.QueryRowContext(ctx, query, turn.GameID, turn.TurnNumber).
		Scan(&existing.ID, &existing.PlayerID, &existing.PositionX, &existing.PositionY, &existing.Hit, &existing.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't save turn: %w", err)
	}

	if existing.PlayerID != turn.PlayerID || existing.Coordinate() != turn.Coordinate() ||
		existing.Hit != turn.Hit {
		return fmt.Errorf("turn %d of game %d: %w", turn.TurnNumber, turn.GameID, apperror.ErrTurnConflict)
	}

	turn.ID = existing.ID
	turn.CreatedAt = existing.CreatedAt

	return nil
}

// ListByGame returns the game's turns in turn order.
func (that *turnRepository) ListByGame(ctx context.Context, gameID int64) ([]entity.Turn, error) {
	query := that.db.Rebind(`SELECT id, game_id, player_id, position_x, position_y, hit, turn_number, created_at
		FROM turns WHERE game_id = ? ORDER BY turn_number`)

	rows, err := that.db.Connection.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("can't list turns: %w", err)
	}
	defer rows.Close()

	turns := make([]entity.Turn, 0)
	for rows.Next() {
		var turn entity.Turn
		if err = rows.Scan(&turn.ID, &turn.GameID, &turn.PlayerID, &turn.PositionX, &turn.PositionY,
			&turn.Hit, &turn.TurnNumber, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("can't scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list turns: %w", err)
	}

	return turns, nil
}
