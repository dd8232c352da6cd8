package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

const redisOpTimeout = 2 * time.Second

// NewRedisClient connects to Redis and verifies the connection with a ping
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisPersistence implements SessionPersistence with one JSON value per
// session under <prefix><id>. A positive TTL expires idle sessions.
type RedisPersistence struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	configManager service.ConfigManager
	engineOpts    []engine.Option
}

// NewRedisPersistence creates a Redis-backed session persistence layer
func NewRedisPersistence(client *redis.Client, prefix string, ttl time.Duration, configManager service.ConfigManager, engineOpts ...engine.Option) *RedisPersistence {
	return &RedisPersistence{
		client:        client,
		prefix:        prefix,
		ttl:           ttl,
		configManager: configManager,
		engineOpts:    engineOpts,
	}
}

// Save stores a session, refreshing its TTL
func (rp *RedisPersistence) Save(session *service.Session) error {
	data, err := newPersistedData(session)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	ttl := rp.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := rp.client.Set(ctx, rp.key(session.ID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Load retrieves a session from Redis
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	jsonData, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return restoreSession(&data, rp.configManager, rp.engineOpts)
}

// Delete removes a session key
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var ids []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), rp.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// Exists checks if a session key is present
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + strings.ToLower(id)
}
