package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Oz-CR/BattleShip-Back/internal/battleship"
)

// Client fans room events out over redis pub/sub so every instance can serve every room.
type Client struct {
	logger *slog.Logger
	client *redis.Client
}

func New(logger *slog.Logger, client *redis.Client) *Client {
	return &Client{
		logger: logger.With("component", "event-bus"),
		client: client,
	}
}

func roomChannel(roomID int64) string {
	return "room:" + strconv.FormatInt(roomID, 10) + ":events"
}

// Publish - sends an event to everyone subscribed to its room.
func (that *Client) Publish(ctx context.Context, event battleship.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, roomChannel(event.RoomID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe - streams the room's events until ctx is done. The channel is closed afterwards.
func (that *Client) Subscribe(ctx context.Context, roomID int64) (<-chan battleship.Event, error) {
	pubsub := that.client.Subscribe(ctx, roomChannel(roomID))

	// wait for the subscription to be confirmed so no event published after return is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to room %d: %w", roomID, err)
	}

	events := make(chan battleship.Event)

	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event battleship.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					that.logger.Error("failed to unmarshal event", "method", "Subscribe", "roomID", roomID, "error", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
