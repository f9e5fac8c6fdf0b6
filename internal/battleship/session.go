package battleship

import (
	"fmt"
	"sync"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

type State uint8

const (
	AwaitingPlayer1 State = iota
	AwaitingPlayer2
	Finished
)

func (that State) String() string {
	switch that {
	case AwaitingPlayer1:
		return "awaiting_player1"
	case AwaitingPlayer2:
		return "awaiting_player2"
	default:
		return "finished"
	}
}

func (that State) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// Session is the live state of one room's game. All fields are guarded by mu.
type Session struct {
	mu sync.Mutex

	roomID    int64
	gameID    int64
	playerIDs [2]int64
	boards    [2]*Board

	state    State
	turns    int
	winnerID int64
}

// NewSession seats player1 (the room creator, who shoots first) and player2 with their own boards.
func NewSession(roomID, gameID, player1ID, player2ID int64, board1, board2 *Board) *Session {
	return &Session{
		roomID:    roomID,
		gameID:    gameID,
		playerIDs: [2]int64{player1ID, player2ID},
		boards:    [2]*Board{board1, board2},
		state:     AwaitingPlayer1,
	}
}

func (that *Session) RoomID() int64 {
	return that.roomID
}

func (that *Session) GameID() int64 {
	return that.gameID
}

// Snapshot is a consistent copy of the session for one viewer.
type Snapshot struct {
	RoomID           int64      `json:"roomId"`
	GameID           int64      `json:"gameId"`
	Player1ID        int64      `json:"player1Id"`
	Player2ID        int64      `json:"player2Id"`
	State            State      `json:"state"`
	AwaitingPlayerID int64      `json:"awaitingPlayerId,omitempty"`
	Turns            int        `json:"turns"`
	WinnerID         int64      `json:"winnerId,omitempty"`
	OwnBoard         [][]string `json:"ownBoard,omitempty"`
	OpponentBoard    [][]string `json:"opponentBoard,omitempty"`
}

// Snapshot reveals the viewer's own ships only. Spectators get both boards masked, with
// OwnBoard holding player1's grid and OpponentBoard player2's.
func (that *Session) Snapshot(viewerID int64) Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := Snapshot{
		RoomID:    that.roomID,
		GameID:    that.gameID,
		Player1ID: that.playerIDs[0],
		Player2ID: that.playerIDs[1],
		State:     that.state,
		Turns:     that.turns,
		WinnerID:  that.winnerID,
	}

	if seat, ok := that.awaitingSeat(); ok {
		snapshot.AwaitingPlayerID = that.playerIDs[seat]
	}

	seat := that.seatOf(viewerID)
	if seat < 0 {
		snapshot.OwnBoard = that.boards[0].View(false)
		snapshot.OpponentBoard = that.boards[1].View(false)
		return snapshot
	}

	snapshot.OwnBoard = that.boards[seat].View(true)
	snapshot.OpponentBoard = that.boards[1-seat].View(false)

	return snapshot
}

// Replay re-applies recorded turns, in turn_number order, to a freshly created session.
func (that *Session) Replay(turns []entity.Turn) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, turn := range turns {
		if turn.TurnNumber != that.turns+1 {
			return fmt.Errorf("turn %d out of sequence, expected %d", turn.TurnNumber, that.turns+1)
		}

		target, err := that.checkTurn(turn.PlayerID)
		if err != nil {
			return fmt.Errorf("replay turn %d: %w", turn.TurnNumber, err)
		}

		result, err := target.ApplyShot(turn.Coordinate())
		if err != nil {
			return fmt.Errorf("replay turn %d: %w", turn.TurnNumber, err)
		}

		if (result == ShotHit) != turn.Hit {
			return fmt.Errorf("replay turn %d: recorded hit=%t but board says %s", turn.TurnNumber, turn.Hit, result)
		}

		that.advance(turn.PlayerID, target.IsDefeated())
	}

	return nil
}

// checkTurn returns the board playerID shoots at. Caller holds mu.
func (that *Session) checkTurn(playerID int64) (*Board, error) {
	if that.state == Finished {
		return nil, apperror.ErrGameFinished
	}

	seat := that.seatOf(playerID)
	if seat < 0 {
		return nil, apperror.ErrNotInGame
	}

	if awaiting, _ := that.awaitingSeat(); awaiting != seat {
		return nil, apperror.ErrNotYourTurn
	}

	return that.boards[1-seat], nil
}

// advance counts the turn and moves the state machine. Caller holds mu.
func (that *Session) advance(playerID int64, opponentDefeated bool) {
	that.turns++

	switch {
	case opponentDefeated:
		that.state = Finished
		that.winnerID = playerID
	case that.state == AwaitingPlayer1:
		that.state = AwaitingPlayer2
	default:
		that.state = AwaitingPlayer1
	}
}

func (that *Session) seatOf(playerID int64) int {
	switch playerID {
	case that.playerIDs[0]:
		return 0
	case that.playerIDs[1]:
		return 1
	default:
		return -1
	}
}

func (that *Session) awaitingSeat() (int, bool) {
	switch that.state {
	case AwaitingPlayer1:
		return 0, true
	case AwaitingPlayer2:
		return 1, true
	default:
		return -1, false
	}
}
