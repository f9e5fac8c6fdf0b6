package entity

import "time"

const (
	RoomStatusWaiting  = "waiting"
	RoomStatusPlaying  = "playing"
	RoomStatusFinished = "finished"
)

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Player1ID int64     `json:"player1Id"`
	Player2ID *int64    `json:"player2Id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (that *Room) IsWaiting() bool {
	return that.Status == RoomStatusWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Status == RoomStatusPlaying
}

func (that *Room) IsFinished() bool {
	return that.Status == RoomStatusFinished
}

func (that *Room) IsFull() bool {
	return that.Player2ID != nil
}

func (that *Room) HasPlayer(userID int64) bool {
	return that.Player1ID == userID || (that.Player2ID != nil && *that.Player2ID == userID)
}

// OpponentOf returns the other seat, or 0 when the seat is empty or userID is not seated.
func (that *Room) OpponentOf(userID int64) int64 {
	switch {
	case that.Player1ID == userID && that.Player2ID != nil:
		return *that.Player2ID
	case that.Player2ID != nil && *that.Player2ID == userID:
		return that.Player1ID
	default:
		return 0
	}
}
