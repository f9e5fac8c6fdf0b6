package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
	"github.com/Oz-CR/BattleShip-Back/internal/repository/storage"
)

func createUser(ctx context.Context, t *testing.T, db *storage.Storage, email string) *entity.User {
	t.Helper()

	user := &entity.User{FullName: "Test Player", Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))

	return user
}

func createRoom(ctx context.Context, t *testing.T, db *storage.Storage, name string, player1ID int64) *entity.Room {
	t.Helper()

	room := &entity.Room{Name: name, Player1ID: player1ID}
	require.NoError(t, NewRoomRepository(db).Create(ctx, room))

	return room
}

func testLayout() entity.Layout {
	return entity.Layout{
		{X: 0, Y: 0, Length: 5, Orientation: entity.Horizontal},
		{X: 0, Y: 2, Length: 4, Orientation: entity.Vertical},
	}
}
