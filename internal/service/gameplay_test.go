package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

func startGame(ctx context.Context, t *testing.T, f *fixture) int64 {
	t.Helper()

	room, err := f.mm.CreateRoom(ctx, host, "Sala", layoutAt(0, 0))
	require.NoError(t, err)

	_, err = f.mm.JoinRoom(ctx, room.ID, guest, layoutAt(5, 5))
	require.NoError(t, err)

	return room.ID
}

func TestGamePlayService_FullGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(host, guest)
	roomID := startGame(ctx, t, f)

	shots := []struct {
		player int64
		target entity.Coordinate
		result battleship.ShotResult
	}{
		{host, entity.Coordinate{X: 5, Y: 5}, battleship.ShotHit},
		{guest, entity.Coordinate{X: 9, Y: 0}, battleship.ShotMiss},
		{host, entity.Coordinate{X: 6, Y: 5}, battleship.ShotHit},
		{guest, entity.Coordinate{X: 9, Y: 1}, battleship.ShotMiss},
	}

	// When: the players alternate shots
	for i, shot := range shots {
		outcome, err := f.gameplay.Shoot(ctx, roomID, shot.player, shot.target)
		require.NoError(t, err)

		// Then: turn numbers grow by one and the other player is up next
		assert.Equal(t, shot.result, outcome.Result)
		assert.Equal(t, i+1, outcome.Turn.TurnNumber)
		assert.False(t, outcome.Finished)
		assert.NotEqual(t, shot.player, outcome.NextPlayerID)
	}

	// When: the host sinks the last ship
	outcome, err := f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 0, Y: 9})

	// Then: the game is over with the host as winner
	require.NoError(t, err)
	assert.True(t, outcome.Finished)
	assert.Equal(t, host, outcome.WinnerID)
	assert.Equal(t, 5, outcome.Turn.TurnNumber)

	// And: the session is gone and game and room are finished
	_, err = f.store.Get(roomID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	game, err := memoryGames{f.db}.GetByRoomID(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, entity.GameStatusFinished, game.Status)
	assert.Equal(t, host, *game.WinnerID)

	room, err := memoryRooms{f.db}.GetByID(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusFinished, room.Status)

	assert.Equal(t, []string{
		battleship.EventSessionStarted,
		battleship.EventShotResolved,
		battleship.EventShotResolved,
		battleship.EventShotResolved,
		battleship.EventShotResolved,
		battleship.EventSessionClosed,
	}, f.publisher.types())

	// And: further shots are refused without becoming live again
	_, err = f.gameplay.Shoot(ctx, roomID, guest, entity.Coordinate{X: 4, Y: 4})
	require.ErrorIs(t, err, apperror.ErrGameFinished)
	assert.Equal(t, 0, f.store.Len())

	// And: the final state is still readable
	state, err := f.gameplay.State(ctx, roomID, guest)
	require.NoError(t, err)
	assert.Equal(t, battleship.Finished, state.State)
	assert.Equal(t, host, state.WinnerID)
	assert.Len(t, state.Log, 5)
}

func TestGamePlayService_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(host, guest, third)
	roomID := startGame(ctx, t, f)

	// guest may not open
	_, err := f.gameplay.Shoot(ctx, roomID, guest, entity.Coordinate{X: 0, Y: 0})
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)

	_, err = f.gameplay.Shoot(ctx, roomID, third, entity.Coordinate{X: 0, Y: 0})
	require.ErrorIs(t, err, apperror.ErrNotInGame)

	_, err = f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 10, Y: 0})
	require.ErrorIs(t, err, apperror.ErrOutOfBounds)

	_, err = f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)
	_, err = f.gameplay.Shoot(ctx, roomID, guest, entity.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)

	// a repeat at the same cell is always refused and keeps the turn
	_, err = f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 1, Y: 1})
	require.ErrorIs(t, err, apperror.ErrAlreadyTargeted)

	outcome, err := f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 2, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Turn.TurnNumber)

	// rooms without a game have no state
	waiting, err := f.mm.CreateRoom(ctx, third, "empty", nil)
	require.NoError(t, err)
	_, err = f.gameplay.State(ctx, waiting.ID, third)
	require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
}

func TestGamePlayService_State(t *testing.T) {
	ctx := context.Background()
	f := newFixture(host, guest, third)
	roomID := startGame(ctx, t, f)

	_, err := f.gameplay.Shoot(ctx, roomID, host, entity.Coordinate{X: 5, Y: 5})
	require.NoError(t, err)

	// When: the guest looks at the game
	state, err := f.gameplay.State(ctx, roomID, guest)

	// Then: own ships are revealed and the opponent's are hidden
	require.NoError(t, err)
	assert.Equal(t, guest, state.AwaitingPlayerID)
	assert.Equal(t, "hit", state.OwnBoard[5][5])
	assert.Equal(t, "ship", state.OwnBoard[5][6])
	assert.Equal(t, "empty", state.OpponentBoard[0][0])
	require.Len(t, state.Log, 1)
	assert.Equal(t, host, state.Log[0].PlayerID)

	// When: a stranger looks at the game
	spectator, err := f.gameplay.State(ctx, roomID, third)

	// Then: no ships are revealed
	require.NoError(t, err)
	assert.Equal(t, "empty", spectator.OwnBoard[0][0])
	assert.Equal(t, "hit", spectator.OpponentBoard[5][5])
	assert.Equal(t, "empty", spectator.OpponentBoard[5][6])
}
