package session

import (
	"context"
	"fmt"

	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/redis"
)

type redisCache struct {
	client *redis.Client
	key    string
}

// NewRedis caches the session in Redis under the namespaced key.
func NewRedis(client *redis.Client, key string) (Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisCache{client: client, key: client.SessionKey(keyOrDefault(key))}, nil
}

func (c *redisCache) Save(ctx context.Context, user *models.User) error {
	raw, err := encode(user)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, raw, 0); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *redisCache) Load(ctx context.Context) (*models.User, error) {
	raw, found, err := c.client.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return decode(raw)
}

func (c *redisCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
