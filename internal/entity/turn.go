package entity

import "time"

// Turn is an immutable shot record.
type Turn struct {
	ID         int64     `json:"id"`
	GameID     int64     `json:"gameId"`
	PlayerID   int64     `json:"playerId"`
	PositionX  int       `json:"positionX"`
	PositionY  int       `json:"positionY"`
	Hit        bool      `json:"hit"`
	TurnNumber int       `json:"turnNumber"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (that *Turn) Coordinate() Coordinate {
	return Coordinate{X: that.PositionX, Y: that.PositionY}
}
