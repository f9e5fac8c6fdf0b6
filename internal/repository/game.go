package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/repository/storage"
)

type GameRepository interface {
	Start(ctx context.Context, roomID, player2ID int64, player1Board, player2Board entity.Layout) (*entity.Game, error)
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	GetByRoomID(ctx context.Context, roomID int64) (*entity.Game, error)
}

type gameRepository struct {
	db *storage.Storage
}

func NewGameRepository(db *storage.Storage) GameRepository {
	return &gameRepository{
		db: db,
	}
}

const gameColumns = `id, room_id, player1_initial_board, player2_initial_board, winner_id, status, created_at, updated_at`

// Start seats player2 and creates the game row in one transaction. The seat is taken with a
// conditional update, so of two concurrent joiners exactly one gets the room and the other
// receives apperror.ErrRoomFull.
func (that *gameRepository) Start(
	ctx context.Context, roomID, player2ID int64, player1Board, player2Board entity.Layout,
) (*entity.Game, error) {
	board1, err := json.Marshal(player1Board)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player1 board: %w", err)
	}

	board2, err := json.Marshal(player2Board)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player2 board: %w", err)
	}

	now := time.Now().UTC()
	game := &entity.Game{
		RoomID:              roomID,
		Player1InitialBoard: player1Board,
		Player2InitialBoard: player2Board,
		Status:              entity.GameStatusInGame,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = that.db.InTx(ctx, func(tx *sql.Tx) error {
		seat := that.db.Rebind(`UPDATE rooms SET player2_id = ?, status = ?, updated_at = ?
			WHERE id = ? AND status = ? AND player2_id IS NULL AND player1_id <> ?`)

		res, err := tx.ExecContext(ctx, seat, player2ID, entity.RoomStatusPlaying, now, roomID, entity.RoomStatusWaiting, player2ID)
		if err != nil {
			return fmt.Errorf("can't seat player2: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("can't seat player2: %w", err)
		}
		if n == 0 {
			return apperror.ErrRoomFull
		}

		insert := that.db.Rebind(`INSERT INTO games (room_id, player1_initial_board, player2_initial_board, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

		err = tx.QueryRowContext(ctx, insert, roomID, string(board1), string(board2), game.Status, now, now).Scan(&game.ID)
		if err != nil {
			return fmt.Errorf("can't save game: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *gameRepository) GetByID(ctx context.Context, id int64) (*entity.Game, error) {
	query := that.db.Rebind(`SELECT ` + gameColumns + ` FROM games WHERE id = ?`)

	return scanGame(that.db.Connection.QueryRowContext(ctx, query, id))
}

func (that *gameRepository) GetByRoomID(ctx context.Context, roomID int64) (*entity.Game, error) {
	query := that.db.Rebind(`SELECT ` + gameColumns + ` FROM games WHERE room_id = ?`)

	return scanGame(that.db.Connection.QueryRowContext(ctx, query, roomID))
}

func scanGame(row rowScanner) (*entity.Game, error) {
	var (
		game           entity.Game
		board1, board2 sql.NullString
		winner         sql.NullInt64
	)

	err := row.Scan(&game.ID, &game.RoomID, &board1, &board2, &winner, &game.Status, &game.CreatedAt, &game.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game: %w", err)
	}

	if board1.Valid {
		if err = json.Unmarshal([]byte(board1.String), &game.Player1InitialBoard); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player1 board: %w", err)
		}
	}

	if board2.Valid {
		if err = json.Unmarshal([]byte(board2.String), &game.Player2InitialBoard); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player2 board: %w", err)
		}
	}

	if winner.Valid {
		id := winner.Int64
		game.WinnerID = &id
	}

	return &game, nil
}
