package entity

import (
	"fmt"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
)

const (
	GameStatusInGame   = "in_game"
	GameStatusFinished = "finished"
)

type Game struct {
	ID                  int64     `json:"id"`
	RoomID              int64     `json:"roomId"`
	Player1InitialBoard Layout    `json:"-"`
	Player2InitialBoard Layout    `json:"-"`
	WinnerID            *int64    `json:"winnerId"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (that *Game) IsFinished() bool {
	return that.Status == GameStatusFinished
}

func (that *Game) IsInGame() bool {
	return that.Status == GameStatusInGame
}

// ConfirmInGame returns nil only while shots can still be fired.
func (that *Game) ConfirmInGame() error {
	switch that.Status {
	case GameStatusInGame:
		return nil
	case GameStatusFinished:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("unknown game status: %s", that.Status)
	}
}
