package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/entities"
	"dispatch/internal/service/token"
)

const keyPrefix = "dispatch:token:"

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type cachedToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresIn int64     `json:"expires_in"`
}

// Cache горячий кэш токенов в Redis, TTL ключа равен остатку жизни токена.
type Cache struct {
	client redisClient
}

func NewCache(client redisClient) *Cache {
	return &Cache{client: client}
}

func cacheKey(provider entities.Provider) string {
	return keyPrefix + provider.String()
}

func (c *Cache) Get(ctx context.Context, provider entities.Provider) (*entities.AccessToken, error) {
	data, err := c.client.Get(ctx, cacheKey(provider)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, token.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("token cache get: %w", err)
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("token cache decode: %w", err)
	}

	return &entities.AccessToken{
		ID:        cached.ID,
		Provider:  provider,
		Token:     cached.Token,
		CreatedAt: cached.CreatedAt,
		ExpiresIn: time.Duration(cached.ExpiresIn) * time.Second,
	}, nil
}

func (c *Cache) Set(ctx context.Context, tok entities.AccessToken, ttl time.Duration) error {
	data, err := json.Marshal(cachedToken{
		ID:        tok.ID,
		Token:     tok.Token,
		CreatedAt: tok.CreatedAt,
		ExpiresIn: int64(tok.ExpiresIn / time.Second),
	})
	if err != nil {
		return fmt.Errorf("token cache encode: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(tok.Provider), data, ttl).Err(); err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, provider entities.Provider) error {
	if err := c.client.Del(ctx, cacheKey(provider)).Err(); err != nil {
		return fmt.Errorf("token cache delete: %w", err)
	}
	return nil
}
