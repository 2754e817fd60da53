package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot persists the notification list as a JSON value under a single
// Redis key. Useful when the pipeline host is stateless and local disk is not
// durable.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot creates a slot backed by client under the given key.
func NewRedisSlot(client *redis.Client, key string) (*RedisSlot, error) {
	if key == "" {
		return nil, ErrEmptySlotName
	}
	return &RedisSlot{client: client, key: key}, nil
}

func (s *RedisSlot) Save(ctx context.Context, notifications []Notification) error {
	payload, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("marshaling notification list: %w", err)
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", s.key, err)
	}

	return nil
}

func (s *RedisSlot) Load(ctx context.Context) ([]Notification, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.key, err)
	}

	var notifications []Notification
	if err := json.Unmarshal(payload, &notifications); err != nil {
		return nil, fmt.Errorf("unmarshaling slot %s: %w", s.key, err)
	}

	return notifications, nil
}
