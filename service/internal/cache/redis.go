// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActionQueueKey is the list the historian drains match actions from.
const ActionQueueKey = "alphags:actions"

// ErrNoSnapshot is returned when no checkpoint is stored for a match.
var ErrNoSnapshot = errors.New("cache: no snapshot stored")

// GameActionRecord is one logged step of a match.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Cache wraps the redis client used for the action log and match checkpoints.
type Cache struct {
	Rdb         *redis.Client
	SnapshotTTL time.Duration
}

// Connect dials redis at addr and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return &Cache{Rdb: rdb, SnapshotTTL: 24 * time.Hour}, nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil || c.Rdb == nil {
		return nil
	}
	return c.Rdb.Close()
}

func snapshotKey(matchID uuid.UUID) string {
	return "alphags:match:" + matchID.String() + ":snapshot"
}

// PublishGameAction appends rec to the action queue.
func (c *Cache) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if c == nil || c.Rdb == nil {
		return errors.New("cache: redis client not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal action %d: %w", rec.ActionIndex, err)
	}
	return c.Rdb.RPush(ctx, ActionQueueKey, data).Err()
}

// SaveSnapshot stores the latest checkpoint of a match, replacing any older one.
func (c *Cache) SaveSnapshot(ctx context.Context, matchID uuid.UUID, data []byte) error {
	if c == nil || c.Rdb == nil {
		return errors.New("cache: redis client not initialized")
	}
	return c.Rdb.Set(ctx, snapshotKey(matchID), data, c.SnapshotTTL).Err()
}

// LoadSnapshot returns the latest checkpoint of a match.
func (c *Cache) LoadSnapshot(ctx context.Context, matchID uuid.UUID) ([]byte, error) {
	if c == nil || c.Rdb == nil {
		return nil, errors.New("cache: redis client not initialized")
	}
	data, err := c.Rdb.Get(ctx, snapshotKey(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("cache: load snapshot %s: %w", matchID, err)
	}
	return data, nil
}

// DeleteSnapshot drops the checkpoint of a finished match.
func (c *Cache) DeleteSnapshot(ctx context.Context, matchID uuid.UUID) error {
	if c == nil || c.Rdb == nil {
		return errors.New("cache: redis client not initialized")
	}
	return c.Rdb.Del(ctx, snapshotKey(matchID)).Err()
}
