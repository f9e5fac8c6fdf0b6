package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

const noWinner = "None"

type StatsUseCase interface {
	Stats(ctx context.Context, userID int64) (*PlayerStats, error)
}

type PlayerStats struct {
	User  StatsUser     `json:"user"`
	Stats StatsSummary  `json:"stats"`
	Games []GameSummary `json:"games"`
}

type StatsUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StatsSummary struct {
	GamesWon     int     `json:"gamesWon"`
	GamesLost    int     `json:"gamesLost"`
	TotalGames   int     `json:"totalGames"`
	WinRate      float64 `json:"winRate"`
	TotalAttacks int     `json:"totalAttacks"`
	TotalHits    int     `json:"totalHits"`
	Accuracy     float64 `json:"accuracy"`
}

// GameSummary describes one room of the player. ID is nil when the room never started.
type GameSummary struct {
	ID              *int64    `json:"id"`
	RoomName        string    `json:"roomName"`
	Opponent        string    `json:"opponent"`
	Winner          string    `json:"winner"`
	UserShips       int       `json:"userShips"`
	UserAttacks     int       `json:"userAttacks"`
	OpponentAttacks int       `json:"opponentAttacks"`
	Status          string    `json:"status"`
	Hits            int       `json:"hits"`
	Misses          int       `json:"misses"`
	CreatedAt       time.Time `json:"createdAt"`

	won  bool
	lost bool
}

type statsRoomRepo interface {
	ListByPlayer(ctx context.Context, playerID int64) ([]*entity.Room, error)
}

type statsGameRepo interface {
	GetByRoomID(ctx context.Context, roomID int64) (*entity.Game, error)
}

type statsTurnRepo interface {
	ListByGame(ctx context.Context, gameID int64) ([]entity.Turn, error)
}

type statsUseCase struct {
	users userService
	rooms statsRoomRepo
	games statsGameRepo
	turns statsTurnRepo
}

func NewStatsUseCase(users userService, rooms statsRoomRepo, games statsGameRepo, turns statsTurnRepo) StatsUseCase {
	return &statsUseCase{
		users: users,
		rooms: rooms,
		games: games,
		turns: turns,
	}
}

func (that *statsUseCase) Stats(ctx context.Context, userID int64) (*PlayerStats, error) {
	user, err := that.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	rooms, err := that.rooms.ListByPlayer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	names := map[int64]string{user.ID: user.DisplayName()}

	stats := &PlayerStats{
		User:  StatsUser{ID: user.ID, Name: user.DisplayName(), Email: user.Email},
		Games: make([]GameSummary, 0, len(rooms)),
	}

	for _, room := range rooms {
		summary, err := that.summarize(ctx, user, room, names)
		if err != nil {
			return nil, err
		}

		stats.Games = append(stats.Games, *summary)

		stats.Stats.TotalAttacks += summary.UserAttacks
		stats.Stats.TotalHits += summary.Hits
		if summary.won {
			stats.Stats.GamesWon++
		}
		if summary.lost {
			stats.Stats.GamesLost++
		}
	}

	stats.Stats.TotalGames = len(stats.Games)
	if stats.Stats.TotalGames > 0 {
		stats.Stats.WinRate = float64(stats.Stats.GamesWon) / float64(stats.Stats.TotalGames) * 100
	}
	if stats.Stats.TotalAttacks > 0 {
		accuracy := float64(stats.Stats.TotalHits) / float64(stats.Stats.TotalAttacks) * 100
		stats.Stats.Accuracy = math.Round(accuracy*100) / 100
	}

	return stats, nil
}

func (that *statsUseCase) summarize(ctx context.Context, user *entity.User, room *entity.Room, names map[int64]string) (*GameSummary, error) {
	summary := &GameSummary{
		RoomName:  room.Name,
		Opponent:  "Unknown",
		Winner:    noWinner,
		Status:    room.Status,
		CreatedAt: room.CreatedAt,
	}

	if opponentID := room.OpponentOf(user.ID); opponentID != 0 {
		name, err := that.nameOf(ctx, opponentID, names)
		if err != nil {
			return nil, err
		}
		summary.Opponent = name
	}

	game, err := that.games.GetByRoomID(ctx, room.ID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game of room %d: %w", room.ID, err)
	}

	gameID := game.ID
	summary.ID = &gameID
	summary.Status = game.Status

	if room.Player1ID == user.ID {
		summary.UserShips = len(game.Player1InitialBoard)
	} else {
		summary.UserShips = len(game.Player2InitialBoard)
	}

	if game.WinnerID != nil {
		name, err := that.nameOf(ctx, *game.WinnerID, names)
		if err != nil {
			return nil, err
		}
		summary.Winner = name

		if game.IsFinished() {
			summary.won = *game.WinnerID == user.ID
			summary.lost = !summary.won
		}
	}

	turns, err := that.turns.ListByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns of game %d: %w", game.ID, err)
	}

	for _, turn := range turns {
		if turn.PlayerID != user.ID {
			summary.OpponentAttacks++
			continue
		}

		summary.UserAttacks++
		if turn.Hit {
			summary.Hits++
		} else {
			summary.Misses++
		}
	}

	return summary, nil
}

func (that *statsUseCase) nameOf(ctx context.Context, userID int64, names map[int64]string) (string, error) {
	if name, ok := names[userID]; ok {
		return name, nil
	}

	other, err := that.users.GetUserByID(ctx, userID)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return "Unknown", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	names[userID] = other.DisplayName()

	return names[userID], nil
}
