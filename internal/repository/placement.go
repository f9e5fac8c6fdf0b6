package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Oz-CR/BattleShip-Back/internal/apperror"
	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

// PlacementRepository keeps ship layouts submitted before a game starts.
type PlacementRepository interface {
	Save(ctx context.Context, roomID, playerID int64, layout entity.Layout, ttl time.Duration) error
	Get(ctx context.Context, roomID, playerID int64) (entity.Layout, error)
	Delete(ctx context.Context, roomID int64, playerIDs ...int64) error
}

type dbPlacement struct {
	client *redis.Client
}

func NewPlacementRepository(client *redis.Client) PlacementRepository {
	return &dbPlacement{
		client: client,
	}
}

func placementKey(roomID, playerID int64) string {
	return "placement:" + strconv.FormatInt(roomID, 10) + ":" + strconv.FormatInt(playerID, 10)
}

func (that *dbPlacement) Save(ctx context.Context, roomID, playerID int64, layout entity.Layout, ttl time.Duration) error {
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	err = that.client.Set(ctx, placementKey(roomID, playerID), layoutJSON, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set placement: %w", err)
	}

	return nil
}

func (that *dbPlacement) Get(ctx context.Context, roomID, playerID int64) (entity.Layout, error) {
	response, err := that.client.Get(ctx, placementKey(roomID, playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlacementMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get placement: %w", err)
	}

	var layout entity.Layout
	if err = json.Unmarshal([]byte(response), &layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal placement: %w", err)
	}

	return layout, nil
}

func (that *dbPlacement) Delete(ctx context.Context, roomID int64, playerIDs ...int64) error {
	if len(playerIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		keys = append(keys, placementKey(roomID, id))
	}

	if err := that.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete placements: %w", err)
	}

	return nil
}
