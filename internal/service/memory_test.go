package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// memoryDB is an in-memory stand-in for the SQL and redis repositories with the same
// conditional-join and turn-recording semantics.
type memoryDB struct {
	mu sync.Mutex

	users      map[int64]*entity.User
	rooms      map[int64]*entity.Room
	games      map[int64]*entity.Game
	turns      map[int64][]entity.Turn
	placements map[[2]int64]entity.Layout
	nextID     int64
	clock      time.Time
}

func newMemoryDB(userIDs ...int64) *memoryDB {
	db := &memoryDB{
		users:      make(map[int64]*entity.User),
		rooms:      make(map[int64]*entity.Room),
		games:      make(map[int64]*entity.Game),
		turns:      make(map[int64][]entity.Turn),
		placements: make(map[[2]int64]entity.Layout),
		nextID:     100,
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, id := range userIDs {
		db.users[id] = &entity.User{ID: id, FullName: "Player", Email: "p@example.com"}
	}

	return db
}

func (that *memoryDB) id() int64 {
	that.nextID++
	return that.nextID
}

func (that *memoryDB) tick() time.Time {
	that.clock = that.clock.Add(time.Second)
	return that.clock
}

func (that *memoryDB) GetByID(_ context.Context, id int64) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	user, ok := that.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type memoryRooms struct{ *memoryDB }

func (that memoryRooms) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room.ID = that.id()
	room.CreatedAt = that.tick()
	copied := *room
	that.rooms[room.ID] = &copied
	return nil
}

func (that memoryRooms) GetByID(_ context.Context, id int64) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (that memoryRooms) ListByStatus(_ context.Context, status string) ([]*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	rooms := make([]*entity.Room, 0)
	for _, room := range that.rooms {
		if room.Status == status {
			copied := *room
			rooms = append(rooms, &copied)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].CreatedAt.Before(rooms[j].CreatedAt) })
	return rooms, nil
}

type memoryGames struct{ *memoryDB }

func (that memoryGames) Start(_ context.Context, roomID, player2ID int64, board1, board2 entity.Layout) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok || !room.IsWaiting() || room.IsFull() || room.Player1ID == player2ID {
		return nil, apperror.ErrRoomFull
	}

	room.Player2ID = &player2ID
	room.Status = entity.RoomStatusPlaying

	game := &entity.Game{
		ID:                  that.id(),
		RoomID:              roomID,
		Player1InitialBoard: board1,
		Player2InitialBoard: board2,
		Status:              entity.GameStatusInGame,
	}
	that.games[game.ID] = game

	copied := *game
	return &copied, nil
}

func (that memoryGames) GetByRoomID(_ context.Context, roomID int64) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, game := range that.games {
		if game.RoomID == roomID {
			copied := *game
			return &copied, nil
		}
	}
	return nil, apperror.ErrGameNotFound
}

type memoryTurns struct{ *memoryDB }

func (that memoryTurns) RecordTurn(_ context.Context, turn *entity.Turn, winnerID *int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	turn.ID = that.id()
	that.turns[turn.GameID] = append(that.turns[turn.GameID], *turn)

	if winnerID != nil {
		game := that.games[turn.GameID]
		game.Status = entity.GameStatusFinished
		winner := *winnerID
		game.WinnerID = &winner
		that.rooms[game.RoomID].Status = entity.RoomStatusFinished
	}
	return nil
}

func (that memoryTurns) ListByGame(_ context.Context, gameID int64) ([]entity.Turn, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Turn{}, that.turns[gameID]...), nil
}

type memoryPlacements struct{ *memoryDB }

func (that memoryPlacements) Save(_ context.Context, roomID, playerID int64, layout entity.Layout, _ time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.placements[[2]int64{roomID, playerID}] = layout
	return nil
}

func (that memoryPlacements) Get(_ context.Context, roomID, playerID int64) (entity.Layout, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	layout, ok := that.placements[[2]int64{roomID, playerID}]
	if !ok {
		return nil, apperror.ErrPlacementMissing
	}
	return layout, nil
}

func (that memoryPlacements) Delete(_ context.Context, roomID int64, playerIDs ...int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, id := range playerIDs {
		delete(that.placements, [2]int64{roomID, id})
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []battleship.Event
}

func (that *recordingPublisher) Publish(_ context.Context, event battleship.Event) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
	return nil
}

func (that *recordingPublisher) types() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	types := make([]string, 0, len(that.events))
	for _, event := range that.events {
		types = append(types, event.Type)
	}
	return types
}

type fixture struct {
	db        *memoryDB
	store     *battleship.SessionStore
	publisher *recordingPublisher
	mm        MatchmakingService
	gameplay  GamePlayService
}

// rules for fixtures: a 10x10 board with a destroyer and a submarine.
var testRules = GameRules{BoardSize: 10, Fleet: []int{2, 1}, PlacementTTL: time.Hour}

func newFixture(userIDs ...int64) *fixture {
	db := newMemoryDB(userIDs...)
	store := battleship.NewSessionStore()
	publisher := &recordingPublisher{}
	logger := discardLogger()

	mm := NewMatchmakingService(logger, db, memoryRooms{db}, memoryGames{db}, memoryTurns{db}, memoryPlacements{db},
		store, publisher, testRules)
	engine := battleship.NewTurnEngine(logger, memoryTurns{db}, publisher)

	return &fixture{
		db:        db,
		store:     store,
		publisher: publisher,
		mm:        mm,
		gameplay:  NewGamePlayService(logger, mm, engine, memoryTurns{db}),
	}
}

// layoutAt puts the destroyer at (x,y)-(x+1,y) and the submarine at (0,9).
func layoutAt(x, y int) entity.Layout {
	return entity.Layout{
		{X: x, Y: y, Length: 2, Orientation: entity.Horizontal},
		{X: 0, Y: 9, Length: 1, Orientation: entity.Vertical},
	}
}
