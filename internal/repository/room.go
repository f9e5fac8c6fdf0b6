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

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id int64) (*entity.Room, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Room, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]*entity.Room, error)
}

type roomRepository struct {
	db *storage.Storage
}

func NewRoomRepository(db *storage.Storage) RoomRepository {
	return &roomRepository{
		db: db,
	}
}

const roomColumns = `id, name, player1_id, player2_id, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*entity.Room, error) {
	var (
		room    entity.Room
		player2 sql.NullInt64
	)

	if err := row.Scan(&room.ID, &room.Name, &room.Player1ID, &player2, &room.Status, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}

	if player2.Valid {
		id := player2.Int64
		room.Player2ID = &id
	}

	return &room, nil
}

func (that *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	query := that.db.Rebind(`INSERT INTO rooms (name, player1_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)

	now := time.Now().UTC()
	if room.Status == "" {
		room.Status = entity.RoomStatusWaiting
	}

	err := that.db.Connection.QueryRowContext(ctx, query, room.Name, room.Player1ID, room.Status, now, now).Scan(&room.ID)
	if err != nil {
		return fmt.Errorf("can't save room: %w", err)
	}

	room.CreatedAt = now
	room.UpdatedAt = now

	return nil
}

func (that *roomRepository) GetByID(ctx context.Context, id int64) (*entity.Room, error) {
	query := that.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`)

	room, err := scanRoom(that.db.Connection.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find room: %w", err)
	}

	return room, nil
}

// ListByStatus returns rooms in the given status, oldest first.
func (that *roomRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Room, error) {
	query := that.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms WHERE status = ? ORDER BY created_at, id`)

	return that.list(ctx, query, status)
}

// ListByPlayer returns every room the player sits in, newest first.
func (that *roomRepository) ListByPlayer(ctx context.Context, playerID int64) ([]*entity.Room, error) {
	query := that.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms
		WHERE player1_id = ? OR player2_id = ? ORDER BY created_at DESC, id DESC`)

	return that.list(ctx, query, playerID, playerID)
}

func (that *roomRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Room, error) {
	rows, err := that.db.Connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*entity.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("can't scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list rooms: %w", err)
	}

	return rooms, nil
}
